// Package jwtauth issues and resolves HMAC-signed access tokens. It
// implements both identity ports so the service can run self-contained,
// without an external identity provider.
package jwtauth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time checks against the identity ports.
var (
	_ ports.TokenIssuer      = (*Authority)(nil)
	_ ports.IdentityResolver = (*Authority)(nil)
)

// Authority signs and verifies HS256 tokens whose subject is the user ID.
type Authority struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// New creates an Authority. The secret must be non-empty; the issuer name
// is embedded in every token and checked on resolution.
func New(secret []byte, issuer string) (*Authority, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwtauth: empty signing secret")
	}
	return &Authority{
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue mints a signed token for the user, valid for ttl.
func (a *Authority) Issue(_ context.Context, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Resolve verifies the token signature, issuer, and expiry, and returns
// the user ID carried in the subject claim. Any verification failure maps
// to domain.ErrUnauthenticated.
func (a *Authority) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", domain.ErrUnauthenticated)
	}
	return userID, nil
}
