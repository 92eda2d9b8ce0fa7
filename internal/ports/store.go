package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
)

// Store is the persistence port. Implemented by outbound storage adapters;
// called by the application layer.
//
// Every lifecycle operation runs inside InTx so that roster lookups,
// ownership checks, and the eventual write observe one consistent snapshot.
// The adapter must provide serializable semantics: two conflicting
// transactions (e.g. two concurrent sprint activations on the same project)
// must not both commit their read-modify-write.
type Store interface {
	// InTx runs fn against a transactional view of the store. If fn returns
	// an error the transaction rolls back and the error is returned
	// unchanged; otherwise the transaction commits.
	InTx(ctx context.Context, fn func(tx Store) error) error

	Users() UserStore
	Projects() ProjectStore
	Sprints() SprintStore
	Stories() StoryStore
	Tasks() TaskStore
	Credentials() CredentialStore
}

// UserStore persists User entities. All getters return domain.ErrNotFound
// for unknown or soft-deleted records.
type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

// ProjectStore persists Project entities and their rosters. ListForUser and
// Members are the two load-bearing queries every authorization check is
// built on.
type ProjectStore interface {
	Get(ctx context.Context, id uuid.UUID) (*project.Project, error)

	// Create persists the project together with its full roster. The write
	// is all-or-nothing within the surrounding transaction.
	Create(ctx context.Context, p *project.Project, members []project.Member) error

	// ListForUser returns the projects on whose roster the user appears.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]project.Project, error)

	// Members returns the roster of the given project.
	Members(ctx context.Context, projectID uuid.UUID) ([]project.Member, error)
}

// SprintStore persists Sprint entities.
type SprintStore interface {
	Get(ctx context.Context, id uuid.UUID) (*sprint.Sprint, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]sprint.Sprint, error)
	Create(ctx context.Context, s *sprint.Sprint) error
	Save(ctx context.Context, s *sprint.Sprint) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoryStore persists Story entities.
type StoryStore interface {
	Get(ctx context.Context, id uuid.UUID) (*story.Story, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]story.Story, error)
	Create(ctx context.Context, st *story.Story) error
	Save(ctx context.Context, st *story.Story) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskStore persists Task entities.
type TaskStore interface {
	Get(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]task.Task, error)
	Create(ctx context.Context, t *task.Task) error
	Save(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CredentialStore persists password hashes keyed by user ID. It is consumed
// only by the auth adapter path; hashes never appear on domain entities and
// never cross into the lifecycle services.
type CredentialStore interface {
	SetHash(ctx context.Context, userID uuid.UUID, hash []byte) error
	Hash(ctx context.Context, userID uuid.UUID) ([]byte, error)
}
