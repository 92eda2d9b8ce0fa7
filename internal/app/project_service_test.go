package app

import (
	"context"
	"errors"
	"testing"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/ports"
)

func TestNewProjectService_NilLogger(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	svc := NewProjectService(env.store, env.guard, nil)
	if svc.logger == nil {
		t.Fatal("NewProjectService(nil logger) should create a no-op logger, got nil")
	}
}

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("creates project with caller as owner", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		owner, token := env.seedUser(t, "ana")
		dev, _ := env.seedUser(t, "bruno")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		associates := []ports.Associate{{Email: dev.Email, Role: project.RoleDeveloper}}
		if err := svc.CreateProject(context.Background(), token, "Backlog", "The backlog", associates); err != nil {
			t.Fatalf("CreateProject() error = %v, want nil", err)
		}

		summaries, err := svc.ListProjects(context.Background(), token)
		if err != nil {
			t.Fatalf("ListProjects() error = %v, want nil", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("ListProjects() len = %d, want 1", len(summaries))
		}
		roster := summaries[0].Members
		if len(roster) != 2 {
			t.Fatalf("roster len = %d, want 2", len(roster))
		}
		roles := map[string]project.Role{}
		for _, m := range roster {
			roles[m.Email] = m.Role
		}
		if roles[owner.Email] != project.RoleProductOwner {
			t.Errorf("creator role = %s, want PRODUCT_OWNER", roles[owner.Email])
		}
		if roles[dev.Email] != project.RoleDeveloper {
			t.Errorf("associate role = %s, want DEVELOPER", roles[dev.Email])
		}
	})

	t.Run("skips associate entry for the creator", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		owner, token := env.seedUser(t, "ana")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		associates := []ports.Associate{{Email: owner.Email, Role: project.RoleDeveloper}}
		if err := svc.CreateProject(context.Background(), token, "Backlog", "", associates); err != nil {
			t.Fatalf("CreateProject() error = %v, want nil", err)
		}

		summaries, _ := svc.ListProjects(context.Background(), token)
		if len(summaries[0].Members) != 1 {
			t.Errorf("roster len = %d, want 1", len(summaries[0].Members))
		}
		if summaries[0].Members[0].Role != project.RoleProductOwner {
			t.Errorf("creator role = %s, want PRODUCT_OWNER", summaries[0].Members[0].Role)
		}
	})

	t.Run("aborts on unknown associate email", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, token := env.seedUser(t, "ana")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		associates := []ports.Associate{{Email: "ghost@example.com", Role: project.RoleDeveloper}}
		err := svc.CreateProject(context.Background(), token, "Backlog", "", associates)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("CreateProject() error = %v, want ErrNotFound", err)
		}

		// Nothing was persisted.
		summaries, _ := svc.ListProjects(context.Background(), token)
		if len(summaries) != 0 {
			t.Errorf("ListProjects() len = %d, want 0 after aborted creation", len(summaries))
		}
	})

	t.Run("rejects invalid associate role", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, token := env.seedUser(t, "ana")
		dev, _ := env.seedUser(t, "bruno")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		associates := []ports.Associate{{Email: dev.Email, Role: "ADMIN"}}
		err := svc.CreateProject(context.Background(), token, "Backlog", "", associates)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateProject() error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, token := env.seedUser(t, "ana")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		err := svc.CreateProject(context.Background(), token, "", "", nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateProject() error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects missing token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		svc := NewProjectService(env.store, env.guard, discardLogger())

		err := svc.CreateProject(context.Background(), "", "Backlog", "", nil)
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("CreateProject() error = %v, want ErrUnauthenticated", err)
		}
	})
}

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()

	t.Run("returns only projects with a roster entry for the caller", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		owner, _ := env.seedUser(t, "ana")
		dev, devToken := env.seedUser(t, "bruno")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		shared := env.seedProject(t, member(owner, project.RoleProductOwner), member(dev, project.RoleDeveloper))
		env.seedProject(t, member(owner, project.RoleProductOwner)) // owner-only

		summaries, err := svc.ListProjects(context.Background(), devToken)
		if err != nil {
			t.Fatalf("ListProjects() error = %v, want nil", err)
		}
		if len(summaries) != 1 {
			t.Fatalf("ListProjects() len = %d, want 1", len(summaries))
		}
		if summaries[0].Project.ID != shared.ID {
			t.Errorf("ListProjects()[0].ID = %s, want %s", summaries[0].Project.ID, shared.ID)
		}
	})

	t.Run("returns empty list for user with no projects", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, token := env.seedUser(t, "ana")
		svc := NewProjectService(env.store, env.guard, discardLogger())

		summaries, err := svc.ListProjects(context.Background(), token)
		if err != nil {
			t.Fatalf("ListProjects() error = %v, want nil", err)
		}
		if len(summaries) != 0 {
			t.Errorf("ListProjects() len = %d, want 0", len(summaries))
		}
	})
}
