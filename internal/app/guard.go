// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and storage through port interfaces.
// Every mutating operation resolves the caller's identity, checks the
// project roster through the Guard, and performs its writes inside a single
// store transaction.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// bearerPrefix is stripped from incoming Authorization header values before
// the token is handed to the resolver.
const bearerPrefix = "Bearer "

// Guard answers the two questions every lifecycle operation asks: who is
// calling, and what may they do on this project. Membership checks take the
// project store as a parameter so they can run against the caller's
// transactional view and observe the same snapshot as the eventual write.
type Guard struct {
	resolver ports.IdentityResolver
}

// NewGuard creates a Guard backed by the given identity resolver.
func NewGuard(resolver ports.IdentityResolver) *Guard {
	return &Guard{resolver: resolver}
}

// ResolveIdentity turns a bearer token into a user ID. An optional
// "Bearer " prefix is stripped first. Missing or rejected tokens fail
// closed with domain.ErrUnauthenticated.
func (g *Guard) ResolveIdentity(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	token = strings.TrimPrefix(token, bearerPrefix)
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}

	id, err := g.resolver.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	return id, nil
}

// Membership returns the roster of the given project.
func (g *Guard) Membership(ctx context.Context, projects ports.ProjectStore, projectID uuid.UUID) ([]project.Member, error) {
	members, err := projects.Members(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	return members, nil
}

// RequireMember returns the caller's role on the project, or
// domain.ErrForbidden if the user has no roster entry.
func (g *Guard) RequireMember(ctx context.Context, projects ports.ProjectStore, projectID, userID uuid.UUID) (project.Role, error) {
	members, err := g.Membership(ctx, projects, projectID)
	if err != nil {
		return "", err
	}
	for _, m := range members {
		if m.UserID == userID {
			return m.Role, nil
		}
	}
	return "", fmt.Errorf("%w: not a member of the project", domain.ErrForbidden)
}

// RequireProductOwner fails with domain.ErrForbidden unless the user holds
// the PRODUCT_OWNER role on the project.
func (g *Guard) RequireProductOwner(ctx context.Context, projects ports.ProjectStore, projectID, userID uuid.UUID) error {
	role, err := g.RequireMember(ctx, projects, projectID, userID)
	if err != nil {
		return err
	}
	if !role.IsProductOwner() {
		return fmt.Errorf("%w: requires the product owner role", domain.ErrForbidden)
	}
	return nil
}
