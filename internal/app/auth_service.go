package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/user"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// minPasswordLen is the minimum accepted password length in bytes.
const minPasswordLen = 8

// Compile-time check that AuthService implements ports.AuthService.
var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements ports.AuthService. It is the only component that
// touches password material; hashes live behind the credential store and
// never reach the lifecycle services.
type AuthService struct {
	store    ports.Store
	issuer   ports.TokenIssuer
	guard    *Guard
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService issuing tokens with the given TTL.
func NewAuthService(store ports.Store, issuer ports.TokenIssuer, guard *Guard, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthService{
		store:    store,
		issuer:   issuer,
		guard:    guard,
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates an account and returns a signed access token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)

	u := &user.User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		CreatedAt: s.now(),
	}
	if err := u.Validate(); err != nil {
		return "", err
	}
	if len(password) < minPasswordLen {
		return "", &domain.ValidationError{
			Fields: map[string]string{"password": fmt.Sprintf("must be at least %d characters", minPasswordLen)},
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		_, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("checking email: %w", err)
		}

		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return tx.Credentials().SetHash(ctx, u.ID, hash)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to register account",
			slog.String("operation", "Register"),
			slog.Any("error", err),
		)
		return "", err
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("user_id", u.ID.String()),
	)

	return s.issuer.Issue(ctx, u.ID, s.tokenTTL)
}

// Login verifies credentials and returns a signed access token. Unknown
// email and bad password produce the same error so callers cannot probe
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return "", fmt.Errorf("loading account: %w", err)
	}

	hash, err := s.store.Credentials().Hash(ctx, u.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
		}
		return "", fmt.Errorf("loading credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("user_id", u.ID.String()),
	)

	return s.issuer.Issue(ctx, u.ID, s.tokenTTL)
}

// Me resolves the token and returns the caller's account.
func (s *AuthService) Me(ctx context.Context, token string) (*user.User, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.store.Users().Get(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("loading account: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
