package app

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/adapters/store/memory"
	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
	"github.com/unbacklog/backlog-service/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeResolver maps bearer tokens to user IDs for tests.
type fakeResolver struct {
	tokens map[string]uuid.UUID
}

func (r *fakeResolver) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := r.tokens[token]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown token: %w", domain.ErrUnauthenticated)
	}
	return id, nil
}

// testEnv wires the services against a fresh in-memory store and a fake
// token resolver. Each seeded user gets the token "token-<name>".
type testEnv struct {
	store    *memory.Store
	resolver *fakeResolver
	guard    *Guard
	clock    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	resolver := &fakeResolver{tokens: make(map[string]uuid.UUID)}
	return &testEnv{
		store:    memory.New(),
		resolver: resolver,
		guard:    NewGuard(resolver),
		clock:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) now() time.Time { return e.clock }

func (e *testEnv) seedUser(t *testing.T, name string) (*user.User, string) {
	t.Helper()
	u := &user.User{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		CreatedAt: e.clock,
	}
	if err := e.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %s: %v", name, err)
	}
	token := "token-" + name
	e.resolver.tokens[token] = u.ID
	return u, token
}

func (e *testEnv) seedProject(t *testing.T, members ...project.Member) *project.Project {
	t.Helper()
	p := &project.Project{
		ID:        uuid.New(),
		Name:      "Backlog Revamp",
		CreatedAt: e.clock,
	}
	for i := range members {
		members[i].ProjectID = p.ID
	}
	if err := e.store.Projects().Create(context.Background(), p, members); err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	return p
}

func member(u *user.User, role project.Role) project.Member {
	return project.Member{UserID: u.ID, Name: u.Name, Email: u.Email, Role: role}
}

func (e *testEnv) seedSprint(t *testing.T, projectID uuid.UUID, status sprint.Status) *sprint.Sprint {
	t.Helper()
	start := e.clock.Add(24 * time.Hour)
	finish := start.Add(14 * 24 * time.Hour)
	sp := &sprint.Sprint{
		ID:         uuid.New(),
		ProjectID:  projectID,
		Objective:  "Ship the search page",
		StartDate:  &start,
		FinishDate: &finish,
		Status:     status,
	}
	if err := e.store.Sprints().Create(context.Background(), sp); err != nil {
		t.Fatalf("seeding sprint: %v", err)
	}
	return sp
}

func (e *testEnv) seedStory(t *testing.T, projectID uuid.UUID) *story.Story {
	t.Helper()
	st := &story.Story{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       "As a user I can search",
		Description: "Full-text search over the backlog",
		Priority:    story.PriorityMedium,
		Status:      story.StatusToDo,
	}
	if err := e.store.Stories().Create(context.Background(), st); err != nil {
		t.Fatalf("seeding story: %v", err)
	}
	return st
}

func (e *testEnv) seedTask(t *testing.T, sprintID uuid.UUID, storyID *uuid.UUID) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:          uuid.New(),
		SprintID:    sprintID,
		StoryID:     storyID,
		Title:       "Index the stories table",
		Description: "Add a tsvector column",
		Status:      task.StatusToDo,
		Priority:    task.PriorityMedium,
		CreatedAt:   e.clock,
		UpdatedAt:   e.clock,
	}
	if err := e.store.Tasks().Create(context.Background(), tk); err != nil {
		t.Fatalf("seeding task: %v", err)
	}
	return tk
}

func strPtr(s string) *string { return &s }

var _ ports.IdentityResolver = (*fakeResolver)(nil)
