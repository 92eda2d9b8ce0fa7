package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time check that TaskService implements ports.TaskService.
var _ ports.TaskService = (*TaskService)(nil)

// TaskService implements ports.TaskService. It owns cross-entity referential
// consistency: a task's story and responsible user must belong to the same
// project as the task's sprint.
type TaskService struct {
	store  ports.Store
	guard  *Guard
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(store ports.Store, guard *Guard, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{
		store:  store,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the tasks of a sprint, readable by any member of the
// sprint's project.
func (s *TaskService) List(ctx context.Context, token string, sprintID uuid.UUID) ([]task.Task, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	sp, err := s.store.Sprints().Get(ctx, sprintID)
	if err != nil {
		return nil, fmt.Errorf("loading sprint: %w", err)
	}
	if _, err := s.guard.RequireMember(ctx, s.store.Projects(), sp.ProjectID, callerID); err != nil {
		return nil, err
	}

	tasks, err := s.store.Tasks().ListBySprint(ctx, sprintID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks",
			slog.String("operation", "List"),
			slog.String("sprint_id", sprintID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return tasks, nil
}

// Create adds a task to a sprint. The referenced story is mandatory and
// must belong to the sprint's project; a responsible user must be a member
// of the same project.
func (s *TaskService) Create(ctx context.Context, token string, sprintID uuid.UUID, draft ports.TaskDraft) (*task.Task, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating task",
		slog.String("sprint_id", sprintID.String()),
	)

	var created *task.Task
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		sp, err := tx.Sprints().Get(ctx, sprintID)
		if err != nil {
			return fmt.Errorf("loading sprint: %w", err)
		}
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), sp.ProjectID, callerID); err != nil {
			return err
		}

		now := s.now()
		t := &task.Task{
			ID:          uuid.New(),
			SprintID:    sp.ID,
			Title:       draft.Title,
			Description: draft.Description,
			Status:      draft.Status,
			Priority:    draft.Priority,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := t.Validate(); err != nil {
			return err
		}

		storyID, err := s.checkStoryRef(ctx, tx, sp.ProjectID, draft.StoryID)
		if err != nil {
			return err
		}
		t.StoryID = storyID

		if draft.ResponsibleID != nil {
			respID, err := s.checkResponsibleRef(ctx, tx, sp.ProjectID, *draft.ResponsibleID)
			if err != nil {
				return err
			}
			t.ResponsibleID = respID
		}

		if err := tx.Tasks().Create(ctx, t); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task",
			slog.String("operation", "Create"),
			slog.String("sprint_id", sprintID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// Update applies a partial patch to a task. Story and responsible-user
// reassignments follow the three-state contract: absent leaves the
// reference unchanged, clear removes it, set validates the new target
// against the owning project.
func (s *TaskService) Update(ctx context.Context, token string, taskID uuid.UUID, patch ports.TaskPatch) (*task.Task, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	var updated *task.Task
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		t, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return fmt.Errorf("loading task: %w", err)
		}
		sp, err := tx.Sprints().Get(ctx, t.SprintID)
		if err != nil {
			return fmt.Errorf("loading sprint: %w", err)
		}
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), sp.ProjectID, callerID); err != nil {
			return err
		}

		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}

		if patch.Story.Present() {
			if patch.Story.Clear() {
				t.StoryID = nil
			} else {
				storyID, err := s.checkStoryRef(ctx, tx, sp.ProjectID, patch.Story.ID())
				if err != nil {
					return err
				}
				t.StoryID = storyID
			}
		}

		if patch.Responsible.Present() {
			if patch.Responsible.Clear() {
				t.ResponsibleID = nil
			} else {
				respID, err := s.checkResponsibleRef(ctx, tx, sp.ProjectID, patch.Responsible.ID())
				if err != nil {
					return err
				}
				t.ResponsibleID = respID
			}
		}

		if err := t.Validate(); err != nil {
			return err
		}
		t.UpdatedAt = s.now()

		if err := tx.Tasks().Save(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update task",
			slog.String("operation", "Update"),
			slog.String("task_id", taskID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// Delete removes a task. Requires PRODUCT_OWNER of the owning project.
func (s *TaskService) Delete(ctx context.Context, token string, taskID uuid.UUID) error {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		t, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return fmt.Errorf("loading task: %w", err)
		}
		sp, err := tx.Sprints().Get(ctx, t.SprintID)
		if err != nil {
			return fmt.Errorf("loading sprint: %w", err)
		}
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), sp.ProjectID, callerID); err != nil {
			return err
		}
		return tx.Tasks().Delete(ctx, t.ID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete task",
			slog.String("operation", "Delete"),
			slog.String("task_id", taskID.String()),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// UpdateStatus sets only the task's status. Any member of the owning
// project may call it; this is the one mutation that does not require the
// product owner role.
func (s *TaskService) UpdateStatus(ctx context.Context, token string, taskID uuid.UUID, status task.Status) (*task.Task, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	if !status.IsValid() {
		return nil, &domain.ValidationError{
			Fields: map[string]string{"status": "invalid: " + string(status)},
		}
	}

	var updated *task.Task
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		t, err := tx.Tasks().Get(ctx, taskID)
		if err != nil {
			return fmt.Errorf("loading task: %w", err)
		}
		sp, err := tx.Sprints().Get(ctx, t.SprintID)
		if err != nil {
			return fmt.Errorf("loading sprint: %w", err)
		}
		if _, err := s.guard.RequireMember(ctx, tx.Projects(), sp.ProjectID, callerID); err != nil {
			return err
		}

		t.Status = status
		t.UpdatedAt = s.now()

		if err := tx.Tasks().Save(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update task status",
			slog.String("operation", "UpdateStatus"),
			slog.String("task_id", taskID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// checkStoryRef verifies that the story exists and belongs to the given
// project, returning a pointer suitable for assignment to Task.StoryID.
func (s *TaskService) checkStoryRef(ctx context.Context, tx ports.Store, projectID, storyID uuid.UUID) (*uuid.UUID, error) {
	st, err := tx.Stories().Get(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}
	if st.ProjectID != projectID {
		return nil, fmt.Errorf("%w: story belongs to a different project", domain.ErrConflict)
	}
	return &st.ID, nil
}

// checkResponsibleRef verifies that the user exists and is a member of the
// given project, returning a pointer suitable for Task.ResponsibleID.
func (s *TaskService) checkResponsibleRef(ctx context.Context, tx ports.Store, projectID, userID uuid.UUID) (*uuid.UUID, error) {
	u, err := tx.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading responsible user: %w", err)
	}
	members, err := tx.Projects().Members(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	for _, m := range members {
		if m.UserID == u.ID {
			return &u.ID, nil
		}
	}
	return nil, fmt.Errorf("%w: responsible user is not a member of the project", domain.ErrConflict)
}
