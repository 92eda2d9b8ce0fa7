package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
)

type sprintStore struct {
	q querier
}

func (s sprintStore) Get(ctx context.Context, id uuid.UUID) (*sprint.Sprint, error) {
	const query = `
		SELECT id, project_id, objective, start_date, finish_date, status
		FROM sprints
		WHERE id = $1
	`
	var sp sprint.Sprint
	err := s.q.QueryRow(ctx, query, id).Scan(
		&sp.ID, &sp.ProjectID, &sp.Objective, &sp.StartDate, &sp.FinishDate, &sp.Status,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying sprint: %w", err)
	}
	return &sp, nil
}

func (s sprintStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]sprint.Sprint, error) {
	const query = `
		SELECT id, project_id, objective, start_date, finish_date, status
		FROM sprints
		WHERE project_id = $1
		ORDER BY start_date NULLS LAST, id
	`
	rows, err := s.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying sprints: %w", err)
	}
	defer rows.Close()

	var sprints []sprint.Sprint
	for rows.Next() {
		var sp sprint.Sprint
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.Objective, &sp.StartDate, &sp.FinishDate, &sp.Status); err != nil {
			return nil, fmt.Errorf("scanning sprint: %w", err)
		}
		sprints = append(sprints, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

func (s sprintStore) Create(ctx context.Context, sp *sprint.Sprint) error {
	const query = `
		INSERT INTO sprints (id, project_id, objective, start_date, finish_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(ctx, query, sp.ID, sp.ProjectID, sp.Objective, sp.StartDate, sp.FinishDate, sp.Status)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}
	return nil
}

func (s sprintStore) Save(ctx context.Context, sp *sprint.Sprint) error {
	const query = `
		UPDATE sprints
		SET objective = $2, start_date = $3, finish_date = $4, status = $5
		WHERE id = $1
	`
	tag, err := s.q.Exec(ctx, query, sp.ID, sp.Objective, sp.StartDate, sp.FinishDate, sp.Status)
	if err != nil {
		return fmt.Errorf("updating sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sprint %s: %w", sp.ID, domain.ErrNotFound)
	}
	return nil
}

func (s sprintStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sprint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
