package middleware_test

import (
	"net/http"
	"testing"

	"github.com/unbacklog/backlog-service/internal/adapters/http/middleware"
)

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret-token")
	headers.Set("X-Api-Key", "key-123")
	headers.Set("Cookie", "session=abc")
	headers.Set("Content-Type", "application/json")
	headers.Add("Accept", "application/json")
	headers.Add("Accept", "text/plain")

	attrs := middleware.RedactHeaders(headers)

	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	for _, key := range []string{"Authorization", "X-Api-Key", "Cookie"} {
		if got[key] != "[REDACTED]" {
			t.Errorf("%s = %q, want %q", key, got[key], "[REDACTED]")
		}
	}
	if got["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got["Content-Type"], "application/json")
	}
	if got["Accept"] != "application/json,text/plain" {
		t.Errorf("Accept = %q, want joined values", got["Accept"])
	}
}

func TestRedactHeaders_Empty(t *testing.T) {
	t.Parallel()

	attrs := middleware.RedactHeaders(http.Header{})
	if len(attrs) != 0 {
		t.Errorf("attrs has %d entries, want 0", len(attrs))
	}
}
