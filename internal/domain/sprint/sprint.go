// Package sprint defines the Sprint entity and its status state machine.
package sprint

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

// Sprint represents a timeboxed iteration within a project. At most one
// sprint per project may be ACTIVE at any time; only PLANNED sprints may be
// deleted.
type Sprint struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	Objective  string
	StartDate  *time.Time
	FinishDate *time.Time
	Status     Status
}

// Validate checks business rules for the Sprint entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (s *Sprint) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(s.Objective) == "" {
		fields["objective"] = domain.MsgRequired
	}
	if !s.Status.IsValid() {
		fields["status"] = "invalid: " + string(s.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateDates enforces the scheduling rules for a fully dated sprint:
// the start must not lie in the past and the finish must not precede the
// start. Callers pass "now" explicitly so the check is deterministic.
func ValidateDates(start, finish, now time.Time) error {
	fields := make(map[string]string)

	if start.Before(now) {
		fields["start_date"] = "must not be before today"
	}
	if finish.Before(start) {
		fields["finish_date"] = "must not be before start date"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Deletable reports whether the sprint may be hard-deleted. Only sprints
// that never started qualify.
func (s *Sprint) Deletable() bool {
	return s.Status == StatusPlanned
}
