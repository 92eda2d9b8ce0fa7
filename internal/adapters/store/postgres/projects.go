package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
)

type projectStore struct {
	q querier
}

func (s projectStore) Get(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	const query = `
		SELECT id, name, description, created_at, deleted_at
		FROM projects
		WHERE id = $1 AND deleted_at IS NULL
	`
	var p project.Project
	err := s.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return &p, nil
}

func (s projectStore) Create(ctx context.Context, p *project.Project, members []project.Member) error {
	const insertProject = `
		INSERT INTO projects (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.q.Exec(ctx, insertProject, p.ID, p.Name, p.Description, p.CreatedAt); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	const insertMember = `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	for _, m := range members {
		if _, err := s.q.Exec(ctx, insertMember, p.ID, m.UserID, m.Role); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: user %s already on the roster", domain.ErrConflict, m.UserID)
			}
			return fmt.Errorf("inserting roster entry: %w", err)
		}
	}
	return nil
}

func (s projectStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]project.Project, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.created_at, p.deleted_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.created_at
	`
	rows, err := s.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying projects for user: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (s projectStore) Members(ctx context.Context, projectID uuid.UUID) ([]project.Member, error) {
	// Confirm the project exists first so an unknown ID is NotFound rather
	// than an empty roster.
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	const query = `
		SELECT m.project_id, m.user_id, u.name, u.email, m.role
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY u.name
	`
	rows, err := s.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying roster: %w", err)
	}
	defer rows.Close()

	var members []project.Member
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Name, &m.Email, &m.Role); err != nil {
			return nil, fmt.Errorf("scanning roster entry: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster: %w", err)
	}
	return members, nil
}
