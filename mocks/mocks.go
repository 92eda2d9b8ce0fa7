// Package mocks provides testify-backed mocks of the service ports for
// handler-level tests. Each constructor binds the mock to the test and
// asserts expectations on cleanup.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
	"github.com/unbacklog/backlog-service/internal/ports"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func bind(t testingT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockAuthService mocks ports.AuthService.
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService(t testingT) *MockAuthService {
	m := &MockAuthService{}
	bind(t, &m.Mock)
	return m
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	args := m.Called(ctx, name, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, token string) (*user.User, error) {
	args := m.Called(ctx, token)
	var u *user.User
	if v := args.Get(0); v != nil {
		u = v.(*user.User)
	}
	return u, args.Error(1)
}

// MockProjectService mocks ports.ProjectService.
type MockProjectService struct {
	mock.Mock
}

func NewMockProjectService(t testingT) *MockProjectService {
	m := &MockProjectService{}
	bind(t, &m.Mock)
	return m
}

func (m *MockProjectService) CreateProject(ctx context.Context, token, name, description string, associates []ports.Associate) error {
	args := m.Called(ctx, token, name, description, associates)
	return args.Error(0)
}

func (m *MockProjectService) ListProjects(ctx context.Context, token string) ([]project.Summary, error) {
	args := m.Called(ctx, token)
	var summaries []project.Summary
	if v := args.Get(0); v != nil {
		summaries = v.([]project.Summary)
	}
	return summaries, args.Error(1)
}

// MockStoryService mocks ports.StoryService.
type MockStoryService struct {
	mock.Mock
}

func NewMockStoryService(t testingT) *MockStoryService {
	m := &MockStoryService{}
	bind(t, &m.Mock)
	return m
}

func (m *MockStoryService) Create(ctx context.Context, token string, projectID uuid.UUID, st *story.Story) (uuid.UUID, error) {
	args := m.Called(ctx, token, projectID, st)
	var id uuid.UUID
	if v := args.Get(0); v != nil {
		id = v.(uuid.UUID)
	}
	return id, args.Error(1)
}

func (m *MockStoryService) List(ctx context.Context, token string, projectID uuid.UUID) ([]story.Story, error) {
	args := m.Called(ctx, token, projectID)
	var stories []story.Story
	if v := args.Get(0); v != nil {
		stories = v.([]story.Story)
	}
	return stories, args.Error(1)
}

func (m *MockStoryService) Update(ctx context.Context, token string, projectID, storyID uuid.UUID, patch ports.StoryPatch) (*story.Story, error) {
	args := m.Called(ctx, token, projectID, storyID, patch)
	var st *story.Story
	if v := args.Get(0); v != nil {
		st = v.(*story.Story)
	}
	return st, args.Error(1)
}

func (m *MockStoryService) Delete(ctx context.Context, token string, projectID, storyID uuid.UUID) error {
	args := m.Called(ctx, token, projectID, storyID)
	return args.Error(0)
}

// MockSprintService mocks ports.SprintService.
type MockSprintService struct {
	mock.Mock
}

func NewMockSprintService(t testingT) *MockSprintService {
	m := &MockSprintService{}
	bind(t, &m.Mock)
	return m
}

func (m *MockSprintService) Create(ctx context.Context, token string, projectID uuid.UUID, draft ports.SprintDraft) (*sprint.Sprint, error) {
	args := m.Called(ctx, token, projectID, draft)
	var sp *sprint.Sprint
	if v := args.Get(0); v != nil {
		sp = v.(*sprint.Sprint)
	}
	return sp, args.Error(1)
}

func (m *MockSprintService) List(ctx context.Context, token string, projectID uuid.UUID) ([]sprint.Sprint, error) {
	args := m.Called(ctx, token, projectID)
	var sprints []sprint.Sprint
	if v := args.Get(0); v != nil {
		sprints = v.([]sprint.Sprint)
	}
	return sprints, args.Error(1)
}

func (m *MockSprintService) Update(ctx context.Context, token string, projectID, sprintID uuid.UUID, patch ports.SprintPatch) (*sprint.Sprint, error) {
	args := m.Called(ctx, token, projectID, sprintID, patch)
	var sp *sprint.Sprint
	if v := args.Get(0); v != nil {
		sp = v.(*sprint.Sprint)
	}
	return sp, args.Error(1)
}

func (m *MockSprintService) Delete(ctx context.Context, token string, projectID, sprintID uuid.UUID) error {
	args := m.Called(ctx, token, projectID, sprintID)
	return args.Error(0)
}

// MockTaskService mocks ports.TaskService.
type MockTaskService struct {
	mock.Mock
}

func NewMockTaskService(t testingT) *MockTaskService {
	m := &MockTaskService{}
	bind(t, &m.Mock)
	return m
}

func (m *MockTaskService) List(ctx context.Context, token string, sprintID uuid.UUID) ([]task.Task, error) {
	args := m.Called(ctx, token, sprintID)
	var tasks []task.Task
	if v := args.Get(0); v != nil {
		tasks = v.([]task.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, token string, sprintID uuid.UUID, draft ports.TaskDraft) (*task.Task, error) {
	args := m.Called(ctx, token, sprintID, draft)
	var tk *task.Task
	if v := args.Get(0); v != nil {
		tk = v.(*task.Task)
	}
	return tk, args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, token string, taskID uuid.UUID, patch ports.TaskPatch) (*task.Task, error) {
	args := m.Called(ctx, token, taskID, patch)
	var tk *task.Task
	if v := args.Get(0); v != nil {
		tk = v.(*task.Task)
	}
	return tk, args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, token string, taskID uuid.UUID) error {
	args := m.Called(ctx, token, taskID)
	return args.Error(0)
}

func (m *MockTaskService) UpdateStatus(ctx context.Context, token string, taskID uuid.UUID, status task.Status) (*task.Task, error) {
	args := m.Called(ctx, token, taskID, status)
	var tk *task.Task
	if v := args.Get(0); v != nil {
		tk = v.(*task.Task)
	}
	return tk, args.Error(1)
}

// Compile-time interface checks.
var (
	_ ports.AuthService    = (*MockAuthService)(nil)
	_ ports.ProjectService = (*MockProjectService)(nil)
	_ ports.StoryService   = (*MockStoryService)(nil)
	_ ports.SprintService  = (*MockSprintService)(nil)
	_ ports.TaskService    = (*MockTaskService)(nil)
)

