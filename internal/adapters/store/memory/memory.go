// Package memory provides an in-memory implementation of the persistence
// port. It backs local development and the service-level tests; state is
// lost on restart.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// Compile-time check that Store implements ports.Store.
var _ ports.Store = (*Store)(nil)

type data struct {
	users    map[uuid.UUID]user.User
	byEmail  map[string]uuid.UUID
	projects map[uuid.UUID]project.Project
	rosters  map[uuid.UUID][]project.Member
	sprints  map[uuid.UUID]sprint.Sprint
	stories  map[uuid.UUID]story.Story
	tasks    map[uuid.UUID]task.Task
	creds    map[uuid.UUID][]byte
}

func newData() *data {
	return &data{
		users:    make(map[uuid.UUID]user.User),
		byEmail:  make(map[string]uuid.UUID),
		projects: make(map[uuid.UUID]project.Project),
		rosters:  make(map[uuid.UUID][]project.Member),
		sprints:  make(map[uuid.UUID]sprint.Sprint),
		stories:  make(map[uuid.UUID]story.Story),
		tasks:    make(map[uuid.UUID]task.Task),
		creds:    make(map[uuid.UUID][]byte),
	}
}

func (d *data) clone() *data {
	c := &data{
		users:    maps.Clone(d.users),
		byEmail:  maps.Clone(d.byEmail),
		projects: maps.Clone(d.projects),
		rosters:  make(map[uuid.UUID][]project.Member, len(d.rosters)),
		sprints:  maps.Clone(d.sprints),
		stories:  maps.Clone(d.stories),
		tasks:    maps.Clone(d.tasks),
		creds:    maps.Clone(d.creds),
	}
	for id, roster := range d.rosters {
		c.rosters[id] = append([]project.Member(nil), roster...)
	}
	return c
}

// Store is a mutex-guarded in-memory store. A single mutex serializes
// every transaction, which trivially satisfies the serializable contract
// of the port.
type Store struct {
	mu   *sync.Mutex
	data *data

	// inTx marks a transactional view handed to InTx callbacks. Views
	// share the parent's mutex and must not re-lock it.
	inTx bool
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		mu:   &sync.Mutex{},
		data: newData(),
	}
}

// InTx runs fn under the store mutex against a working copy of the data.
// The copy replaces the live data only if fn succeeds.
func (s *Store) InTx(_ context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		// Nested transactions join the enclosing one.
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Users returns the user collection.
func (s *Store) Users() ports.UserStore { return userStore{s} }

// Projects returns the project collection.
func (s *Store) Projects() ports.ProjectStore { return projectStore{s} }

// Sprints returns the sprint collection.
func (s *Store) Sprints() ports.SprintStore { return sprintStore{s} }

// Stories returns the story collection.
func (s *Store) Stories() ports.StoryStore { return storyStore{s} }

// Tasks returns the task collection.
func (s *Store) Tasks() ports.TaskStore { return taskStore{s} }

// Credentials returns the credential collection.
func (s *Store) Credentials() ports.CredentialStore { return credentialStore{s} }

type userStore struct{ s *Store }

func (us userStore) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	defer us.s.lock()()
	u, ok := us.s.data.users[id]
	if !ok || u.Deleted() {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (us userStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	defer us.s.lock()()
	id, ok := us.s.data.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
	}
	u := us.s.data.users[id]
	if u.Deleted() {
		return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
	}
	return &u, nil
}

func (us userStore) Create(_ context.Context, u *user.User) error {
	defer us.s.lock()()
	if _, ok := us.s.data.byEmail[u.Email]; ok {
		return fmt.Errorf("user %q: %w", u.Email, domain.ErrConflict)
	}
	us.s.data.users[u.ID] = *u
	us.s.data.byEmail[u.Email] = u.ID
	return nil
}

type projectStore struct{ s *Store }

func (ps projectStore) Get(_ context.Context, id uuid.UUID) (*project.Project, error) {
	defer ps.s.lock()()
	p, ok := ps.s.data.projects[id]
	if !ok || p.DeletedAt != nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (ps projectStore) Create(_ context.Context, p *project.Project, members []project.Member) error {
	defer ps.s.lock()()
	if _, ok := ps.s.data.projects[p.ID]; ok {
		return fmt.Errorf("project %s: %w", p.ID, domain.ErrConflict)
	}
	ps.s.data.projects[p.ID] = *p
	ps.s.data.rosters[p.ID] = append([]project.Member(nil), members...)
	return nil
}

func (ps projectStore) ListForUser(_ context.Context, userID uuid.UUID) ([]project.Project, error) {
	defer ps.s.lock()()
	var out []project.Project
	for projectID, roster := range ps.s.data.rosters {
		p, ok := ps.s.data.projects[projectID]
		if !ok || p.DeletedAt != nil {
			continue
		}
		for _, m := range roster {
			if m.UserID == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (ps projectStore) Members(_ context.Context, projectID uuid.UUID) ([]project.Member, error) {
	defer ps.s.lock()()
	roster, ok := ps.s.data.rosters[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	return append([]project.Member(nil), roster...), nil
}

type sprintStore struct{ s *Store }

func (ss sprintStore) Get(_ context.Context, id uuid.UUID) (*sprint.Sprint, error) {
	defer ss.s.lock()()
	sp, ok := ss.s.data.sprints[id]
	if !ok {
		return nil, fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	return &sp, nil
}

func (ss sprintStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]sprint.Sprint, error) {
	defer ss.s.lock()()
	var out []sprint.Sprint
	for _, sp := range ss.s.data.sprints {
		if sp.ProjectID == projectID {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (ss sprintStore) Create(_ context.Context, sp *sprint.Sprint) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.sprints[sp.ID]; ok {
		return fmt.Errorf("sprint %s: %w", sp.ID, domain.ErrConflict)
	}
	ss.s.data.sprints[sp.ID] = *sp
	return nil
}

func (ss sprintStore) Save(_ context.Context, sp *sprint.Sprint) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.sprints[sp.ID]; !ok {
		return fmt.Errorf("sprint %s: %w", sp.ID, domain.ErrNotFound)
	}
	ss.s.data.sprints[sp.ID] = *sp
	return nil
}

func (ss sprintStore) Delete(_ context.Context, id uuid.UUID) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.sprints[id]; !ok {
		return fmt.Errorf("sprint %s: %w", id, domain.ErrNotFound)
	}
	delete(ss.s.data.sprints, id)
	// Tasks go with their sprint; assigned stories fall back to the backlog.
	for tid, t := range ss.s.data.tasks {
		if t.SprintID == id {
			delete(ss.s.data.tasks, tid)
		}
	}
	for sid, st := range ss.s.data.stories {
		if st.SprintID != nil && *st.SprintID == id {
			st.SprintID = nil
			ss.s.data.stories[sid] = st
		}
	}
	return nil
}

type storyStore struct{ s *Store }

func (ss storyStore) Get(_ context.Context, id uuid.UUID) (*story.Story, error) {
	defer ss.s.lock()()
	st, ok := ss.s.data.stories[id]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	return &st, nil
}

func (ss storyStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]story.Story, error) {
	defer ss.s.lock()()
	var out []story.Story
	for _, st := range ss.s.data.stories {
		if st.ProjectID == projectID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (ss storyStore) Create(_ context.Context, st *story.Story) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.stories[st.ID]; ok {
		return fmt.Errorf("story %s: %w", st.ID, domain.ErrConflict)
	}
	ss.s.data.stories[st.ID] = *st
	return nil
}

func (ss storyStore) Save(_ context.Context, st *story.Story) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.stories[st.ID]; !ok {
		return fmt.Errorf("story %s: %w", st.ID, domain.ErrNotFound)
	}
	ss.s.data.stories[st.ID] = *st
	return nil
}

func (ss storyStore) Delete(_ context.Context, id uuid.UUID) error {
	defer ss.s.lock()()
	if _, ok := ss.s.data.stories[id]; !ok {
		return fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	delete(ss.s.data.stories, id)
	// Tasks keep running but lose the story link.
	for tid, t := range ss.s.data.tasks {
		if t.StoryID != nil && *t.StoryID == id {
			t.StoryID = nil
			ss.s.data.tasks[tid] = t
		}
	}
	return nil
}

type taskStore struct{ s *Store }

func (ts taskStore) Get(_ context.Context, id uuid.UUID) (*task.Task, error) {
	defer ts.s.lock()()
	t, ok := ts.s.data.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	return &t, nil
}

func (ts taskStore) ListBySprint(_ context.Context, sprintID uuid.UUID) ([]task.Task, error) {
	defer ts.s.lock()()
	var out []task.Task
	for _, t := range ts.s.data.tasks {
		if t.SprintID == sprintID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (ts taskStore) Create(_ context.Context, t *task.Task) error {
	defer ts.s.lock()()
	if _, ok := ts.s.data.tasks[t.ID]; ok {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrConflict)
	}
	ts.s.data.tasks[t.ID] = *t
	return nil
}

func (ts taskStore) Save(_ context.Context, t *task.Task) error {
	defer ts.s.lock()()
	if _, ok := ts.s.data.tasks[t.ID]; !ok {
		return fmt.Errorf("task %s: %w", t.ID, domain.ErrNotFound)
	}
	ts.s.data.tasks[t.ID] = *t
	return nil
}

func (ts taskStore) Delete(_ context.Context, id uuid.UUID) error {
	defer ts.s.lock()()
	if _, ok := ts.s.data.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	delete(ts.s.data.tasks, id)
	return nil
}

type credentialStore struct{ s *Store }

func (cs credentialStore) SetHash(_ context.Context, userID uuid.UUID, hash []byte) error {
	defer cs.s.lock()()
	cs.s.data.creds[userID] = append([]byte(nil), hash...)
	return nil
}

func (cs credentialStore) Hash(_ context.Context, userID uuid.UUID) ([]byte, error) {
	defer cs.s.lock()()
	hash, ok := cs.s.data.creds[userID]
	if !ok {
		return nil, fmt.Errorf("credentials for %s: %w", userID, domain.ErrNotFound)
	}
	return append([]byte(nil), hash...), nil
}
