// Package task defines the Task entity. A task always belongs to exactly
// one sprint; its optional story and responsible-user references must point
// inside the same project as that sprint.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

// Task represents a unit of sprint work.
type Task struct {
	ID            uuid.UUID
	SprintID      uuid.UUID
	StoryID       *uuid.UUID
	ResponsibleID *uuid.UUID
	Title         string
	Description   string
	Status        Status
	Priority      Priority
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks business rules for the Task entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if !t.Status.IsValid() {
		fields["status"] = "invalid: " + string(t.Status)
	}
	if !t.Priority.IsValid() {
		fields["priority"] = "invalid: " + string(t.Priority)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
