package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time check that StoryService implements ports.StoryService.
var _ ports.StoryService = (*StoryService)(nil)

// StoryService implements ports.StoryService. Writes require the
// PRODUCT_OWNER role; reads require any roster entry.
type StoryService struct {
	store  ports.Store
	guard  *Guard
	logger *slog.Logger
}

// NewStoryService creates a StoryService.
func NewStoryService(store ports.Store, guard *Guard, logger *slog.Logger) *StoryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StoryService{store: store, guard: guard, logger: logger}
}

// Create adds a story to the project's backlog and returns its ID.
func (s *StoryService) Create(ctx context.Context, token string, projectID uuid.UUID, st *story.Story) (uuid.UUID, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return uuid.Nil, err
	}

	s.logger.InfoContext(ctx, "creating story",
		slog.String("project_id", projectID.String()),
	)

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Projects().Get(ctx, projectID); err != nil {
			return fmt.Errorf("loading project: %w", err)
		}
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}

		st.ID = uuid.New()
		st.ProjectID = projectID
		st.SprintID = nil
		if err := st.Validate(); err != nil {
			return err
		}

		return tx.Stories().Create(ctx, st)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create story",
			slog.String("operation", "Create"),
			slog.String("project_id", projectID.String()),
			slog.Any("error", err),
		)
		return uuid.Nil, err
	}

	return st.ID, nil
}

// List returns the project's stories.
func (s *StoryService) List(ctx context.Context, token string, projectID uuid.UUID) ([]story.Story, error) {
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

	stories, err := s.store.Stories().ListByProject(ctx, projectID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list stories",
			slog.String("operation", "List"),
			slog.String("project_id", projectID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return stories, nil
}

// Update applies a partial patch to a story. Sprint reassignment requires
// the target sprint to exist and to belong to the story's project.
func (s *StoryService) Update(ctx context.Context, token string, projectID, storyID uuid.UUID, patch ports.StoryPatch) (*story.Story, error) {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	var updated *story.Story
	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}

		st, err := s.loadOwnedStory(ctx, tx, projectID, storyID)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			st.Title = *patch.Title
		}
		if patch.Description != nil {
			st.Description = *patch.Description
		}
		if patch.Priority != nil {
			st.Priority = *patch.Priority
		}
		if patch.Status != nil {
			st.Status = *patch.Status
		}

		if patch.Sprint.Present() {
			if patch.Sprint.Clear() {
				st.SprintID = nil
			} else {
				sp, err := tx.Sprints().Get(ctx, patch.Sprint.ID())
				if err != nil {
					return fmt.Errorf("loading sprint: %w", err)
				}
				if sp.ProjectID != projectID {
					return fmt.Errorf("%w: sprint belongs to a different project", domain.ErrConflict)
				}
				st.SprintID = &sp.ID
			}
		}

		if err := st.Validate(); err != nil {
			return err
		}
		if err := tx.Stories().Save(ctx, st); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update story",
			slog.String("operation", "Update"),
			slog.String("story_id", storyID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// Delete removes a story with the same authorization and ownership checks
// as Update.
func (s *StoryService) Delete(ctx context.Context, token string, projectID, storyID uuid.UUID) error {
	callerID, err := s.guard.ResolveIdentity(ctx, token)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx ports.Store) error {
		if err := s.guard.RequireProductOwner(ctx, tx.Projects(), projectID, callerID); err != nil {
			return err
		}
		st, err := s.loadOwnedStory(ctx, tx, projectID, storyID)
		if err != nil {
			return err
		}
		return tx.Stories().Delete(ctx, st.ID)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete story",
			slog.String("operation", "Delete"),
			slog.String("story_id", storyID.String()),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// loadOwnedStory fetches a story and verifies it belongs to the given
// project. A story owned by another project is reported as not found, not
// as forbidden, so story IDs cannot be probed across projects.
func (s *StoryService) loadOwnedStory(ctx context.Context, tx ports.Store, projectID, storyID uuid.UUID) (*story.Story, error) {
	st, err := tx.Stories().Get(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("loading story: %w", err)
	}
	if st.ProjectID != projectID {
		return nil, fmt.Errorf("%w: story does not belong to this project", domain.ErrNotFound)
	}
	return st, nil
}
