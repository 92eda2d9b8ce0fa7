// Package introspect resolves access tokens by calling a remote identity
// provider's RFC 7662 token introspection endpoint. It is the identity
// backend for deployments where tokens are issued by an external service
// rather than signed locally.
package introspect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/platform/httpclient"
	"github.com/unbacklog/backlog-service/internal/ports"
)

const introspectPath = "/oauth2/introspect"

// response is the subset of the introspection response this service needs.
type response struct {
	Active  bool   `json:"active"`
	Subject string `json:"sub"`
}

// Resolver validates tokens against a remote introspection endpoint.
type Resolver struct {
	client *httpclient.Client
}

var _ ports.IdentityResolver = (*Resolver)(nil)

// New creates a Resolver backed by the given HTTP client. The client's base
// URL must point at the identity provider.
func New(client *httpclient.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve posts the token to the introspection endpoint and returns the
// subject's user ID. Inactive tokens and 4xx responses map to
// domain.ErrUnauthenticated; transport failures and 5xx responses map to
// domain.ErrUnavailable so callers can distinguish a bad token from a
// provider outage.
func (r *Resolver) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	form := url.Values{"token": {token}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.client.BaseURL()+introspectPath, strings.NewReader(form.Encode()))
	if err != nil {
		return uuid.Nil, fmt.Errorf("building introspection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return uuid.Nil, fmt.Errorf("%w: identity provider unreachable: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode below.
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return uuid.Nil, fmt.Errorf("%w: introspection rejected with HTTP %d", domain.ErrUnauthenticated, resp.StatusCode)
	default:
		return uuid.Nil, fmt.Errorf("%w: introspection returned HTTP %d", domain.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: reading introspection response: %v", domain.ErrUnavailable, err)
	}

	var ir response
	if err := json.Unmarshal(body, &ir); err != nil {
		return uuid.Nil, fmt.Errorf("%w: decoding introspection response: %v", domain.ErrUnavailable, err)
	}

	if !ir.Active {
		return uuid.Nil, fmt.Errorf("%w: token is not active", domain.ErrUnauthenticated)
	}

	subject, err := uuid.Parse(ir.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject %q", domain.ErrUnauthenticated, ir.Subject)
	}

	return subject, nil
}
