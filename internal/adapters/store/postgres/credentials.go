package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unbacklog/backlog-service/internal/domain"
)

type credentialStore struct {
	q querier
}

func (s credentialStore) SetHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	const query = `
		INSERT INTO credentials (user_id, hash)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET hash = EXCLUDED.hash
	`
	if _, err := s.q.Exec(ctx, query, userID, hash); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

func (s credentialStore) Hash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var hash []byte
	err := s.q.QueryRow(ctx, `SELECT hash FROM credentials WHERE user_id = $1`, userID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("credential for user %s: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying credential: %w", err)
	}
	return hash, nil
}
