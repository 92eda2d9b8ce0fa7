package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
)

// Associate pairs an email with the role the user should receive on the
// roster of a newly created project.
type Associate struct {
	Email string
	Role  project.Role
}

// ProjectService defines the service port for the project aggregate.
// Implemented by the application layer; called by inbound adapters (handlers).
// Tokens are passed through verbatim from the Authorization header; identity
// resolution happens inside the service.
type ProjectService interface {
	// CreateProject creates a project together with its collaborator roster
	// in a single transaction. The caller becomes a PRODUCT_OWNER member.
	// Each associate is resolved by email; if any email is unknown the whole
	// creation fails with domain.ErrNotFound and nothing is persisted.
	CreateProject(ctx context.Context, token, name, description string, associates []Associate) error

	// ListProjects returns the projects where the caller has a roster entry,
	// each annotated with the full roster.
	ListProjects(ctx context.Context, token string) ([]project.Summary, error)
}

// StoryPatch describes a partial update to a user story. Nil scalar fields
// are left unchanged. Sprint reassignment uses the three-state RefPatch so
// "move out of the sprint" and "leave unchanged" stay distinguishable.
type StoryPatch struct {
	Title       *string
	Description *string
	Priority    *story.Priority
	Status      *story.Status
	Sprint      domain.RefPatch
}

// StoryService defines the service port for the user-story lifecycle.
// Create, Update, and Delete require the PRODUCT_OWNER role; List requires
// any project membership.
type StoryService interface {
	// Create adds a story to the project's backlog and returns its ID.
	// Returns domain.ErrForbidden unless the caller is a PRODUCT_OWNER.
	Create(ctx context.Context, token string, projectID uuid.UUID, st *story.Story) (uuid.UUID, error)

	// List returns the project's stories.
	// Returns domain.ErrForbidden unless the caller is a member.
	List(ctx context.Context, token string, projectID uuid.UUID) ([]story.Story, error)

	// Update applies a partial patch. Returns domain.ErrNotFound if the
	// story does not exist or belongs to a different project. A sprint
	// reassignment target must exist (domain.ErrNotFound) and belong to the
	// story's project (domain.ErrConflict).
	Update(ctx context.Context, token string, projectID, storyID uuid.UUID, patch StoryPatch) (*story.Story, error)

	// Delete removes a story, with the same authorization and ownership
	// checks as Update.
	Delete(ctx context.Context, token string, projectID, storyID uuid.UUID) error
}

// SprintDraft carries the caller-supplied fields for a new sprint. If either
// date is absent the sprint is created PLANNED regardless of Status.
type SprintDraft struct {
	Objective  string
	StartDate  *time.Time
	FinishDate *time.Time
	Status     sprint.Status
}

// SprintPatch describes a partial update to a sprint. Nil fields are left
// unchanged. Setting Status to ACTIVE on a sprint that is not already active
// demotes any active sibling to COMPLETED within the same transaction.
type SprintPatch struct {
	Objective  *string
	StartDate  *time.Time
	FinishDate *time.Time
	Status     *sprint.Status
}

// SprintService defines the service port for the sprint lifecycle. It owns
// the single-active-sprint invariant and the PLANNED -> ACTIVE -> COMPLETED
// state machine.
type SprintService interface {
	// Create adds a sprint to the project. Requires PRODUCT_OWNER. When the
	// resulting status is ACTIVE, any currently active sibling is demoted to
	// COMPLETED atomically with the insert.
	Create(ctx context.Context, token string, projectID uuid.UUID, draft SprintDraft) (*sprint.Sprint, error)

	// List returns the project's sprints. Requires any membership.
	List(ctx context.Context, token string, projectID uuid.UUID) ([]sprint.Sprint, error)

	// Update applies a partial patch. Requires PRODUCT_OWNER; returns
	// domain.ErrNotFound if the sprint is absent or owned by another project.
	Update(ctx context.Context, token string, projectID, sprintID uuid.UUID, patch SprintPatch) (*sprint.Sprint, error)

	// Delete removes a sprint. Requires PRODUCT_OWNER and returns
	// domain.ErrConflict unless the sprint is still PLANNED.
	Delete(ctx context.Context, token string, projectID, sprintID uuid.UUID) error
}

// TaskDraft carries the caller-supplied fields for a new task. StoryID is
// mandatory and must reference a story of the sprint's project. A non-nil
// ResponsibleID must reference a member of the same project.
type TaskDraft struct {
	Title         string
	Description   string
	Status        task.Status
	Priority      task.Priority
	StoryID       uuid.UUID
	ResponsibleID *uuid.UUID
}

// TaskPatch describes a partial update to a task. Nil scalar fields are left
// unchanged; Story and Responsible use the three-state RefPatch contract.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *task.Status
	Priority    *task.Priority
	Story       domain.RefPatch
	Responsible domain.RefPatch
}

// TaskService defines the service port for the task lifecycle. It owns the
// cross-entity referential consistency between tasks, sprints, stories, and
// responsible users.
type TaskService interface {
	// List returns the sprint's tasks. Returns domain.ErrNotFound if the
	// sprint is absent and domain.ErrForbidden if the caller is not a member
	// of its project.
	List(ctx context.Context, token string, sprintID uuid.UUID) ([]task.Task, error)

	// Create adds a task to the sprint. Requires PRODUCT_OWNER of the
	// sprint's project. The referenced story must belong to the same project
	// (domain.ErrConflict otherwise, domain.ErrNotFound if absent); likewise
	// a responsible user must be a project member.
	Create(ctx context.Context, token string, sprintID uuid.UUID, draft TaskDraft) (*task.Task, error)

	// Update applies a partial patch with the same cross-reference checks as
	// Create. Requires PRODUCT_OWNER of the owning project.
	Update(ctx context.Context, token string, taskID uuid.UUID, patch TaskPatch) (*task.Task, error)

	// Delete removes a task. Requires PRODUCT_OWNER of the owning project.
	Delete(ctx context.Context, token string, taskID uuid.UUID) error

	// UpdateStatus sets only the task's status and bumps its update
	// timestamp. Any member of the owning project may call it.
	UpdateStatus(ctx context.Context, token string, taskID uuid.UUID, status task.Status) (*task.Task, error)
}

// AuthService defines the service port for account registration and login.
// It sits outside the authorization core: it is the producer of the tokens
// the other services resolve.
type AuthService interface {
	// Register creates an account and returns a signed access token.
	// Returns domain.ErrConflict if the email is already registered.
	Register(ctx context.Context, name, email, password string) (string, error)

	// Login verifies credentials and returns a signed access token.
	// Returns domain.ErrUnauthenticated on unknown email or bad password,
	// without distinguishing the two.
	Login(ctx context.Context, email, password string) (string, error)

	// Me resolves the token and returns the caller's account.
	Me(ctx context.Context, token string) (*user.User, error)
}
