// Package story defines the UserStory entity.
package story

import (
	"strings"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

// Story represents a user story in a project's backlog, optionally assigned
// to one sprint of the same project.
type Story struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	SprintID    *uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Status      Status
}

// Validate checks business rules for the Story entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (s *Story) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(s.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if !s.Priority.IsValid() {
		fields["priority"] = "invalid: " + string(s.Priority)
	}
	if !s.Status.IsValid() {
		fields["status"] = "invalid: " + string(s.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
