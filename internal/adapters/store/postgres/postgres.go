// Package postgres implements the persistence port on PostgreSQL using
// pgx connection pooling. Transactions run at the serializable isolation
// level so concurrent read-modify-write cycles (such as two simultaneous
// sprint activations on one project) cannot both commit.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/metric"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/platform/config"
	"github.com/unbacklog/backlog-service/internal/platform/telemetry"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// PostgreSQL error codes relevant to the domain error mapping.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
)

// querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same entity store code serves both pooled and transactional access.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL implementation of the persistence port.
type Store struct {
	pool    *pgxpool.Pool
	q       querier
	metrics *telemetry.Metrics
	logger  *slog.Logger
	inTx    bool
}

var (
	_ ports.Store         = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// New connects a pool to the configured database and verifies connectivity
// with a ping. If metrics is nil, transaction metrics are skipped.
func New(ctx context.Context, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing store DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool, q: pool, metrics: metrics, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Name identifies this dependency in readiness reports.
func (s *Store) Name() string {
	return "postgres"
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	return nil
}

// InTx runs fn in a serializable transaction. A nested call joins the
// enclosing transaction. Serialization failures surface as
// domain.ErrConflict so callers treat them like any other lost race.
func (s *Store) InTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	start := time.Now()

	err := s.runTx(ctx, fn)

	s.recordTx(ctx, time.Since(start), err)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeSerializationFailure {
		return fmt.Errorf("%w: concurrent update, retry the request", domain.ErrConflict)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(tx ports.Store) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txStore := &Store{pool: s.pool, q: tx, metrics: s.metrics, logger: s.logger, inTx: true}
	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Store) recordTx(ctx context.Context, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	attrs := metric.WithAttributes(
		telemetry.AttrDBOperation.String("tx"),
		telemetry.AttrResult.String(result),
	)

	s.metrics.StoreTxDuration.Record(ctx, elapsed.Seconds(), attrs)
	s.metrics.StoreTxTotal.Add(ctx, 1, attrs)
}

func (s *Store) Users() ports.UserStore             { return userStore{s.q} }
func (s *Store) Projects() ports.ProjectStore       { return projectStore{s.q} }
func (s *Store) Sprints() ports.SprintStore         { return sprintStore{s.q} }
func (s *Store) Stories() ports.StoryStore          { return storyStore{s.q} }
func (s *Store) Tasks() ports.TaskStore             { return taskStore{s.q} }
func (s *Store) Credentials() ports.CredentialStore { return credentialStore{s.q} }

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
