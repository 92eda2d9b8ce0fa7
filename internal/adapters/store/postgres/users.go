package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/user"
)

type userStore struct {
	q querier
}

func (s userStore) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	const query = `
		SELECT id, name, email, created_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	u, err := scanUser(s.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (s userStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	const query = `
		SELECT id, name, email, created_at, deleted_at
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`
	u, err := scanUser(s.q.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return u, nil
}

func (s userStore) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, u.Email)
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
