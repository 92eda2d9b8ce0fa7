package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService. Project creation persists
// the project and its full roster in one transaction so a half-resolved
// associate list never leaves a partial project behind.
type ProjectService struct {
	store  ports.Store
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

// NewProjectService creates a ProjectService.
func NewProjectService(store ports.Store, guard *Guard, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectService{
		store:  store,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

// CreateProject creates a project with the caller as PRODUCT_OWNER and one
// roster entry per associate. Associates are resolved by email; an unknown
// email aborts the whole creation with domain.ErrNotFound.
func (s *ProjectService) CreateProject(ctx context.Context, token, name, description string, associates []ports.Associate) error {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "creating project",
		slog.String("name", name),
		slog.Int("associates", len(associates)),
	)

	p := &project.Project{Name: name, Description: description}
	if err := p.Validate(); err != nil {
		return err
	}
	for _, a := range associates {
		if !a.Role.IsValid() {
			return &domain.ValidationError{
				Fields: map[string]string{"role": "invalid: " + string(a.Role)},
			}
		}
	}

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		caller, err := tx.Users().Get(ctx, callerID)
		if err != nil {
			return fmt.Errorf("loading caller: %w", err)
		}

		p.ID = uuid.New()
		p.CreatedAt = s.now()

		members := []project.Member{{
			ProjectID: p.ID,
			UserID:    caller.ID,
			Name:      caller.Name,
			Email:     caller.Email,
			Role:      project.RoleProductOwner,
		}}

		for _, a := range associates {
			u, err := tx.Users().GetByEmail(ctx, a.Email)
			if err != nil {
				return fmt.Errorf("resolving associate %q: %w", a.Email, err)
			}
			if u.ID == caller.ID {
				// The creator is already on the roster as owner.
				continue
			}
			members = append(members, project.Member{
				ProjectID: p.ID,
				UserID:    u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      a.Role,
			})
		}

		return tx.Projects().Create(ctx, p, members)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create project",
			slog.String("operation", "CreateProject"),
			slog.String("name", name),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// ListProjects returns the projects where the caller has a roster entry,
// each annotated with its full roster.
func (s *ProjectService) ListProjects(ctx context.Context, token string) ([]project.Summary, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	projects, err := s.store.Projects().ListForUser(ctx, callerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Any("error", err),
		)
		return nil, err
	}

	summaries := make([]project.Summary, 0, len(projects))
	for _, p := range projects {
		members, err := s.store.Projects().Members(ctx, p.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to load project roster",
				slog.String("operation", "ListProjects"),
				slog.String("project_id", p.ID.String()),
				slog.Any("error", err),
			)
			return nil, err
		}
		summaries = append(summaries, project.Summary{Project: p, Members: members})
	}

	return summaries, nil
}
