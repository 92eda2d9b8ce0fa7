package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unbacklog/backlog-service/internal/adapters/http/handlers"
	"github.com/unbacklog/backlog-service/internal/platform/health"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                        { return f.name }
func (f fakeChecker) HealthCheck(_ context.Context) error { return f.err }

// --- Liveness ---

func TestLiveness_AlwaysOK(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(health.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	h.Liveness(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[map[string]string](t, rec)
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want %q", resp["status"], "ok")
	}
}

// --- Readiness ---

func TestReadiness_AllHealthy(t *testing.T) {
	t.Parallel()

	registry := health.New()
	registry.Register(fakeChecker{name: "postgres"})
	registry.Register(fakeChecker{name: "identity-provider"})
	h := handlers.NewHealthHandler(registry)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.Readiness(rec, req)

	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[map[string]any](t, rec)
	if resp["status"] != "ready" {
		t.Errorf("status = %q, want %q", resp["status"], "ready")
	}
	checks, ok := resp["checks"].(map[string]any)
	if !ok {
		t.Fatal("checks field not a map")
	}
	if checks["postgres"] != "ok" {
		t.Errorf("checks[postgres] = %v, want %q", checks["postgres"], "ok")
	}
}

func TestReadiness_OneFailing(t *testing.T) {
	t.Parallel()

	registry := health.New()
	registry.Register(fakeChecker{name: "postgres"})
	registry.Register(fakeChecker{name: "identity-provider", err: errors.New("connection refused")})
	h := handlers.NewHealthHandler(registry)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.Readiness(rec, req)

	requireStatus(t, rec, http.StatusServiceUnavailable)

	resp := decodeJSON[map[string]any](t, rec)
	if resp["status"] != "not_ready" {
		t.Errorf("status = %q, want %q", resp["status"], "not_ready")
	}
	checks, ok := resp["checks"].(map[string]any)
	if !ok {
		t.Fatal("checks field not a map")
	}
	if checks["identity-provider"] != "connection refused" {
		t.Errorf("checks[identity-provider] = %v, want failure message", checks["identity-provider"])
	}
}

func TestReadiness_NoCheckersIsReady(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(health.New())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	h.Readiness(rec, req)

	requireStatus(t, rec, http.StatusOK)
}
