package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityResolver turns an opaque bearer token into a user identifier.
// Implemented by outbound identity adapters (local JWT verification or
// remote introspection); called by the authorization guard.
//
// The resolver fails closed: malformed, expired, or unsigned tokens return
// domain.ErrUnauthenticated. Callers strip any "Bearer " prefix before
// resolution.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// TokenIssuer mints bearer tokens for authenticated users. Implemented by
// the JWT adapter; called by the auth service after credential checks.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (string, error)
}
