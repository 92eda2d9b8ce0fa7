package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/story"
)

type storyStore struct {
	q querier
}

func (s storyStore) Get(ctx context.Context, id uuid.UUID) (*story.Story, error) {
	const query = `
		SELECT id, project_id, sprint_id, title, description, priority, status
		FROM stories
		WHERE id = $1
	`
	var st story.Story
	err := s.q.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.ProjectID, &st.SprintID, &st.Title, &st.Description, &st.Priority, &st.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying story: %w", err)
	}
	return &st, nil
}

func (s storyStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]story.Story, error) {
	const query = `
		SELECT id, project_id, sprint_id, title, description, priority, status
		FROM stories
		WHERE project_id = $1
		ORDER BY title, id
	`
	rows, err := s.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying stories: %w", err)
	}
	defer rows.Close()

	var stories []story.Story
	for rows.Next() {
		var st story.Story
		if err := rows.Scan(&st.ID, &st.ProjectID, &st.SprintID, &st.Title, &st.Description, &st.Priority, &st.Status); err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stories: %w", err)
	}
	return stories, nil
}

func (s storyStore) Create(ctx context.Context, st *story.Story) error {
	const query = `
		INSERT INTO stories (id, project_id, sprint_id, title, description, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.q.Exec(ctx, query, st.ID, st.ProjectID, st.SprintID, st.Title, st.Description, st.Priority, st.Status)
	if err != nil {
		return fmt.Errorf("inserting story: %w", err)
	}
	return nil
}

func (s storyStore) Save(ctx context.Context, st *story.Story) error {
	const query = `
		UPDATE stories
		SET sprint_id = $2, title = $3, description = $4, priority = $5, status = $6
		WHERE id = $1
	`
	tag, err := s.q.Exec(ctx, query, st.ID, st.SprintID, st.Title, st.Description, st.Priority, st.Status)
	if err != nil {
		return fmt.Errorf("updating story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", st.ID, domain.ErrNotFound)
	}
	return nil
}

func (s storyStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
