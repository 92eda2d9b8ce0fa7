package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time check that SprintService implements ports.SprintService.
var _ ports.SprintService = (*SprintService)(nil)

// SprintService implements ports.SprintService. It owns the
// single-active-sprint invariant: any operation that results in an ACTIVE
// sprint demotes the previously active sibling to COMPLETED inside the same
// store transaction, so no interleaving can observe two active sprints.
type SprintService struct {
	store  ports.Store
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

// NewSprintService creates a SprintService.
func NewSprintService(store ports.Store, guard *Guard, logger *slog.Logger) *SprintService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SprintService{
		store:  store,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

// Create adds a sprint to the project. A sprint missing either date is
// forced to PLANNED; a fully dated sprint must start no earlier than now
// and finish no earlier than it starts.
func (s *SprintService) Create(ctx context.Context, token string, projectID uuid.UUID, draft ports.SprintDraft) (*sprint.Sprint, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating sprint",
		slog.String("project_id", projectID.String()),
		slog.String("status", draft.Status.String()),
	)

	var created *sprint.Sprint
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return fmt.Errorf("loading project: %w", err)
		}
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}

		status := draft.Status
		if status == "" {
			status = sprint.StatusPlanned
		}
		if draft.StartDate == nil || draft.FinishDate == nil {
			// An unscheduled sprint can only be planned.
			status = sprint.StatusPlanned
		} else if err := sprint.ValidateDates(*draft.StartDate, *draft.FinishDate, s.now()); err != nil {
			return err
		}

		sp := &sprint.Sprint{
			ID:         uuid.New(),
			ProjectID:  projectID,
			Objective:  draft.Objective,
			StartDate:  draft.StartDate,
			FinishDate: draft.FinishDate,
			Status:     status,
		}
		if err := sp.Validate(); err != nil {
			return err
		}

		if sp.Status == sprint.StatusActive {
			if err := s.demoteActive(ctx, tx, projectID, sp.ID); err != nil {
				return err
			}
		}

		if err := tx.Sprints().Create(ctx, sp); err != nil {
			return err
		}
		created = sp
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create sprint",
			slog.String("operation", "Create"),
			slog.String("project_id", projectID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// List returns the project's sprints.
func (s *SprintService) List(ctx context.Context, token string, projectID uuid.UUID) ([]sprint.Sprint, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Projects().Get(ctx, projectID); err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if _, err := s.guard.RequireMember(ctx, s.store.Projects(), projectID, callerID); err != nil {
		return nil, err
	}

	sprints, err := s.store.Sprints().ListByProject(ctx, projectID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list sprints",
			slog.String("operation", "List"),
			slog.String("project_id", projectID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return sprints, nil
}

// Update applies a partial patch to a sprint. Activating a sprint that is
// not already active sweeps its siblings; re-activating the active sprint
// is a no-op for siblings. Any other status is applied directly.
func (s *SprintService) Update(ctx context.Context, token string, projectID, sprintID uuid.UUID, patch ports.SprintPatch) (*sprint.Sprint, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	var updated *sprint.Sprint
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}

		sp, err := s.loadOwnedSprint(ctx, tx, projectID, sprintID)
		if err != nil {
			return err
		}

		if patch.Objective != nil {
			sp.Objective = *patch.Objective
		}
		if patch.StartDate != nil {
			sp.StartDate = patch.StartDate
		}
		if patch.FinishDate != nil {
			sp.FinishDate = patch.FinishDate
		}

		if patch.Status != nil {
			next := *patch.Status
			if !next.IsValid() {
				return &domain.ValidationError{
					Fields: map[string]string{"status": "invalid: " + string(next)},
				}
			}
			if next == sprint.StatusActive && sp.Status != sprint.StatusActive {
				if err := s.demoteActive(ctx, tx, projectID, sp.ID); err != nil {
					return err
				}
			}
			sp.Status = next
		}

		if err := sp.Validate(); err != nil {
			return err
		}
		if err := tx.Sprints().Save(ctx, sp); err != nil {
			return err
		}
		updated = sp
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update sprint",
			slog.String("operation", "Update"),
			slog.String("sprint_id", sprintID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// Delete removes a sprint. Only PLANNED sprints may be deleted.
func (s *SprintService) Delete(ctx context.Context, token string, projectID, sprintID uuid.UUID) error {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}
		sp, err := s.loadOwnedSprint(ctx, tx, projectID, sprintID)
		if err != nil {
			return err
		}
		if !sp.Deletable() {
			return fmt.Errorf("%w: only planned sprints can be deleted", domain.ErrConflict)
		}
		return tx.Sprints().Delete(ctx, sp.ID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete sprint",
			slog.String("operation", "Delete"),
			slog.String("sprint_id", sprintID.String()),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// demoteActive completes every active sprint of the project except the one
// identified by winner. Runs inside the caller's transaction so demotion
// and activation commit or roll back together.
func (s *SprintService) demoteActive(ctx context.Context, tx ports.Store, projectID, winner uuid.UUID) error {
	sprints, err := tx.Sprints().ListByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("listing sprints: %w", err)
	}
	for i := range sprints {
		sib := &sprints[i]
		if sib.ID == winner || sib.Status != sprint.StatusActive {
			continue
		}
		sib.Status = sprint.StatusCompleted
		if err := tx.Sprints().Save(ctx, sib); err != nil {
			return fmt.Errorf("completing sprint %s: %w", sib.ID, err)
		}
	}
	return nil
}

// loadOwnedSprint fetches a sprint and verifies it belongs to the given
// project; sprints of other projects are reported as not found.
func (s *SprintService) loadOwnedSprint(ctx context.Context, tx ports.Store, projectID, sprintID uuid.UUID) (*sprint.Sprint, error) {
	sp, err := tx.Sprints().Get(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("loading sprint: %w", err)
	}
	if sp.ProjectID != projectID {
		return nil, fmt.Errorf("%w: sprint does not belong to this project", domain.ErrNotFound)
	}
	return sp, nil
}
