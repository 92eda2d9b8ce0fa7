package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/platform/httpclient"
)

const headerRequestID = "X-Request-ID"

// requestIDKey keys the request ID in this package's context values. The
// httpclient package keeps its own key so the two layers stay decoupled.
type requestIDKey struct{}

// WithRequestID stores a request ID in the context. The ID is also handed to
// httpclient so outbound calls propagate it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	return httpclient.WithRequestID(ctx, id)
}

// RequestIDFromContext returns the request ID, or "" when none is stored.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID tags every request with an X-Request-ID. An ID supplied by the
// caller is kept; otherwise a fresh UUID is minted. The ID lands in the
// request context and is echoed on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}
