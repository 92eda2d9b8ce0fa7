package dto

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

// OptionalRef distinguishes the three states of a reference field in a PATCH
// body: absent (leave unchanged), null (clear the reference), and a UUID
// (point at a new target). encoding/json only invokes UnmarshalJSON for keys
// present in the body, which is what makes the absent state observable.
type OptionalRef struct {
	set bool
	id  *uuid.UUID
}

func (o *OptionalRef) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.id = &id
	return nil
}

// Patch converts the decoded state to a domain.RefPatch.
func (o OptionalRef) Patch() domain.RefPatch {
	switch {
	case !o.set:
		return domain.RefPatch{}
	case o.id == nil:
		return domain.ClearRef()
	default:
		return domain.SetRef(*o.id)
	}
}

// RegisterRequest represents the JSON body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *RegisterRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = msgRequired
	}
	if r.Password == "" {
		fields["password"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// LoginRequest represents the JSON body for a credential login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that required fields are present.
func (r *LoginRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = msgRequired
	}
	if r.Password == "" {
		fields["password"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// AssociateRequest names a collaborator to place on a new project's roster.
type AssociateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateProjectRequest represents the JSON body for creating a new project.
type CreateProjectRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Associates  []AssociateRequest `json:"associates,omitempty"`
}

// Validate checks that required fields are present. Role values are checked
// by the service against the domain role set.
func (r *CreateProjectRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	for i, a := range r.Associates {
		if strings.TrimSpace(a.Email) == "" {
			fields["associates["+strconv.Itoa(i)+"].email"] = msgRequired
		}
		if strings.TrimSpace(a.Role) == "" {
			fields["associates["+strconv.Itoa(i)+"].role"] = msgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateStoryRequest represents the JSON body for adding a backlog story.
type CreateStoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Validate checks that required fields are present. Priority and status
// values are validated by the domain entity.
func (r *CreateStoryRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateStoryRequest represents the JSON body for patching a story.
// All fields are optional; nil means "do not change this field". The
// sprint_id field additionally accepts an explicit null to move the story
// back to the backlog.
type UpdateStoryRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Priority    *string     `json:"priority,omitempty"`
	Status      *string     `json:"status,omitempty"`
	SprintID    OptionalRef `json:"sprint_id"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateStoryRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateSprintRequest represents the JSON body for adding a sprint.
// Dates are RFC 3339 timestamps; both must be present for the sprint to be
// schedulable, otherwise it is created PLANNED.
type CreateSprintRequest struct {
	Objective  string  `json:"objective"`
	StartDate  *string `json:"start_date,omitempty"`
	FinishDate *string `json:"finish_date,omitempty"`
	Status     string  `json:"status,omitempty"`
}

// Validate checks that required fields are present and dates parse.
func (r *CreateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Objective) == "" {
		fields["objective"] = msgRequired
	}
	validateDate(fields, "start_date", r.StartDate)
	validateDate(fields, "finish_date", r.FinishDate)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateSprintRequest represents the JSON body for patching a sprint.
type UpdateSprintRequest struct {
	Objective  *string `json:"objective,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	FinishDate *string `json:"finish_date,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateSprintRequest) Validate() error {
	fields := make(map[string]string)

	if r.Objective != nil && strings.TrimSpace(*r.Objective) == "" {
		fields["objective"] = msgMustNotEmpty
	}
	validateDate(fields, "start_date", r.StartDate)
	validateDate(fields, "finish_date", r.FinishDate)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CreateTaskRequest represents the JSON body for adding a task to a sprint.
type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status,omitempty"`
	Priority      string     `json:"priority,omitempty"`
	StoryID       uuid.UUID  `json:"story_id"`
	ResponsibleID *uuid.UUID `json:"responsible_id,omitempty"`
}

// Validate checks that required fields are present.
func (r *CreateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	if r.StoryID == uuid.Nil {
		fields["story_id"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTaskRequest represents the JSON body for patching a task. story_id
// and responsible_id accept an explicit null to clear the reference.
type UpdateTaskRequest struct {
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	Status        *string     `json:"status,omitempty"`
	Priority      *string     `json:"priority,omitempty"`
	StoryID       OptionalRef `json:"story_id"`
	ResponsibleID OptionalRef `json:"responsible_id"`
}

// Validate checks that any provided fields have valid values.
func (r *UpdateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// UpdateTaskStatusRequest represents the JSON body for the status-only
// transition any project member may perform.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks that the status is present. The value itself is validated
// by the service against the task status set.
func (r *UpdateTaskStatusRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return &domain.ValidationError{Fields: map[string]string{"status": msgRequired}}
	}
	return nil
}

func validateDate(fields map[string]string, key string, raw *string) {
	if raw == nil {
		return
	}
	if _, err := ParseDate(*raw); err != nil {
		fields[key] = "must be an RFC 3339 timestamp"
	}
}

// ParseDate parses an RFC 3339 timestamp from a request body.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}
