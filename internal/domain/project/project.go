// Package project defines the Project aggregate root and its membership
// roster. Stories, sprints, and tasks reference projects by ID; the roster
// is the single source of truth for who may act on any of them.
package project

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

// Project represents a backlog container owned by a roster of members.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// Member is a (user, role) roster entry. Name and Email are denormalised
// copies of the user record for roster listings.
type Member struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      Role
}

// Summary is a project annotated with its full roster, as returned by
// list operations.
type Summary struct {
	Project Project
	Members []Member
}

// Validate checks business rules for the Project entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (p *Project) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if strings.TrimSpace(p.Description) == "" {
		fields["description"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// OwnerCount returns the number of roster entries holding the
// PRODUCT_OWNER role. A valid roster always has at least one.
func OwnerCount(members []Member) int {
	n := 0
	for _, m := range members {
		if m.Role.IsProductOwner() {
			n++
		}
	}
	return n
}
