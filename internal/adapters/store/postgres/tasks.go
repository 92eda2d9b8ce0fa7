package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/task"
)

type taskStore struct {
	q querier
}

func (s taskStore) Get(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	const query = `
		SELECT id, sprint_id, story_id, responsible_id, title, description,
		       status, priority, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	var t task.Task
	err := s.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.SprintID, &t.StoryID, &t.ResponsibleID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}
	return &t, nil
}

func (s taskStore) ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]task.Task, error) {
	const query = `
		SELECT id, sprint_id, story_id, responsible_id, title, description,
		       status, priority, created_at, updated_at
		FROM tasks
		WHERE sprint_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.q.Query(ctx, query, sprintID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		if err := rows.Scan(
			&t.ID, &t.SprintID, &t.StoryID, &t.ResponsibleID, &t.Title, &t.Description,
			&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (s taskStore) Create(ctx context.Context, t *task.Task) error {
	const query = `
		INSERT INTO tasks (id, sprint_id, story_id, responsible_id, title,
		                   description, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.q.Exec(ctx, query,
		t.ID, t.SprintID, t.StoryID, t.ResponsibleID, t.Title,
		t.Description, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s taskStore) Save(ctx context.Context, t *task.Task) error {
	const query = `
		UPDATE tasks
		SET story_id = $2, responsible_id = $3, title = $4, description = $5,
		    status = $6, priority = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := s.q.Exec(ctx, query,
		t.ID, t.StoryID, t.ResponsibleID, t.Title, t.Description,
		t.Status, t.Priority, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

func (s taskStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
