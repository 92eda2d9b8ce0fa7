package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// fakeIssuer mints predictable tokens and registers them with the test
// resolver so Me can resolve them back.
type fakeIssuer struct {
	resolver *fakeResolver
}

func (i *fakeIssuer) Issue(_ context.Context, userID uuid.UUID, _ time.Duration) (string, error) {
	token := "issued-" + userID.String()
	i.resolver.tokens[token] = userID
	return token, nil
}

var _ ports.TokenIssuer = (*fakeIssuer)(nil)

func (e *testEnv) authService() *AuthService {
	issuer := &fakeIssuer{resolver: e.resolver}
	svc := NewAuthService(e.store, issuer, e.guard, time.Hour, discardLogger())
	svc.now = e.now
	return svc
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates account and returns token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		token, err := svc.Register(context.Background(), "Ana", "ana@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if token == "" {
			t.Fatal("Register() returned empty token")
		}

		u, err := svc.Me(context.Background(), token)
		if err != nil {
			t.Fatalf("Me() error = %v, want nil", err)
		}
		if u.Email != "ana@example.com" {
			t.Errorf("Me().Email = %q, want %q", u.Email, "ana@example.com")
		}
	})

	t.Run("normalizes email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		if _, err := svc.Register(context.Background(), "Ana", "  ANA@Example.COM ", "correct horse"); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if _, err := svc.Login(context.Background(), "ana@example.com", "correct horse"); err != nil {
			t.Errorf("Login() with normalized email error = %v, want nil", err)
		}
	})

	t.Run("conflict on duplicate email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "correct horse"); err != nil {
			t.Fatalf("first Register() error = %v, want nil", err)
		}
		_, err := svc.Register(context.Background(), "Other Ana", "ana@example.com", "another pass")
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("second Register() error = %v, want ErrConflict", err)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		_, err := svc.Register(context.Background(), "Ana", "ana@example.com", "short")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Register() error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		_, err := svc.Register(context.Background(), "Ana", "not-an-email", "correct horse")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Register() error = %v, want ErrValidation", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("returns token for valid credentials", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "correct horse"); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		token, err := svc.Login(context.Background(), "ana@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Login() error = %v, want nil", err)
		}
		if token == "" {
			t.Error("Login() returned empty token")
		}
	})

	t.Run("unauthenticated for wrong password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		if _, err := svc.Register(context.Background(), "Ana", "ana@example.com", "correct horse"); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		_, err := svc.Login(context.Background(), "ana@example.com", "wrong horse")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("Login() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("unauthenticated for unknown email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		_, err := svc.Login(context.Background(), "ghost@example.com", "whatever pass")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("Login() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestAuthService_Me(t *testing.T) {
	t.Parallel()

	t.Run("unauthenticated for bad token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		_, err := svc.Me(context.Background(), "Bearer bogus")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("Me() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("resolves token with Bearer prefix", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := env.authService()

		token, err := svc.Register(context.Background(), "Ana", "ana@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}

		u, err := svc.Me(context.Background(), "Bearer "+token)
		if err != nil {
			t.Fatalf("Me() error = %v, want nil", err)
		}
		if u.Name != "Ana" {
			t.Errorf("Me().Name = %q, want %q", u.Name, "Ana")
		}
	})
}
