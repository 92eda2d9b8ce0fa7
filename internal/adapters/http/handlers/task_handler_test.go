package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/unbacklog/backlog-service/internal/adapters/http/dto"
	"github.com/unbacklog/backlog-service/internal/adapters/http/handlers"
	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/ports"
	"github.com/unbacklog/backlog-service/mocks"
)

func newTaskHandler(t *testing.T) (*handlers.TaskHandler, *mocks.MockTaskService) {
	t.Helper()
	svc := mocks.NewMockTaskService(t)
	return handlers.NewTaskHandler(svc), svc
}

// --- List ---

func TestTaskList_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	svc.On("List", mock.Anything, testToken, sprintID).
		Return([]task.Task{validTask(sprintID)}, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/sprints/"+sprintID.String()+"/tasks", nil)
	req = withChiParams(req, map[string]string{"sprintId": sprintID.String()})
	h.List(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TaskListResponse](t, rec)
	if resp.Count != 1 {
		t.Errorf("Count = %d, want 1", resp.Count)
	}
}

func TestTaskList_SprintNotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	svc.On("List", mock.Anything, testToken, sprintID).
		Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/sprints/"+sprintID.String()+"/tasks", nil)
	req = withChiParams(req, map[string]string{"sprintId": sprintID.String()})
	h.List(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- Create ---

func TestTaskCreate_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	created := validTask(sprintID)
	svc.On("Create", mock.Anything, testToken, sprintID, mock.Anything).
		Return(&created, nil)

	body := jsonBody(t, dto.CreateTaskRequest{Title: "Wire the card tokenizer", StoryID: *created.StoryID})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/sprints/"+sprintID.String()+"/tasks", body)
	req = withChiParams(req, map[string]string{"sprintId": sprintID.String()})
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.TaskResponse](t, rec)
	if resp.ID != created.ID {
		t.Errorf("ID = %v, want %v", resp.ID, created.ID)
	}
	if resp.Status != "TO_DO" {
		t.Errorf("Status = %q, want %q", resp.Status, "TO_DO")
	}
}

func TestTaskCreate_MissingStory(t *testing.T) {
	t.Parallel()
	h, _ := newTaskHandler(t)

	sprintID := uuid.New()
	body := jsonBody(t, dto.CreateTaskRequest{Title: "Orphan task"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/sprints/"+sprintID.String()+"/tasks", body)
	req = withChiParams(req, map[string]string{"sprintId": sprintID.String()})
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestTaskCreate_StoryFromOtherProject(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	svc.On("Create", mock.Anything, testToken, sprintID, mock.Anything).
		Return(nil, domain.ErrConflict)

	body := jsonBody(t, dto.CreateTaskRequest{Title: "Cross-project task", StoryID: uuid.New()})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/sprints/"+sprintID.String()+"/tasks", body)
	req = withChiParams(req, map[string]string{"sprintId": sprintID.String()})
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusConflict)
}

// --- Update ---

func TestTaskUpdate_ClearsResponsible(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	updated := validTask(sprintID)
	svc.On("Update", mock.Anything, testToken, updated.ID, mock.MatchedBy(func(p ports.TaskPatch) bool {
		return p.Responsible.Present() && p.Responsible.Clear()
	})).Return(&updated, nil)

	body := jsonBody(t, map[string]any{"responsible_id": nil})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+updated.ID.String(), body)
	req = withChiParams(req, map[string]string{"taskId": updated.ID.String()})
	h.Update(rec, req)

	requireStatus(t, rec, http.StatusOK)
}

func TestTaskUpdate_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	taskID := uuid.New()
	svc.On("Update", mock.Anything, testToken, taskID, mock.Anything).
		Return(nil, domain.ErrNotFound)

	body := jsonBody(t, map[string]any{"title": "Renamed"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+taskID.String(), body)
	req = withChiParams(req, map[string]string{"taskId": taskID.String()})
	h.Update(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- UpdateStatus ---

func TestTaskUpdateStatus_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	sprintID := uuid.New()
	updated := validTask(sprintID)
	updated.Status = task.StatusDone
	svc.On("UpdateStatus", mock.Anything, testToken, updated.ID, task.StatusDone).
		Return(&updated, nil)

	body := jsonBody(t, dto.UpdateTaskStatusRequest{Status: "DONE"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+updated.ID.String()+"/status", body)
	req = withChiParams(req, map[string]string{"taskId": updated.ID.String()})
	h.UpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TaskResponse](t, rec)
	if resp.Status != "DONE" {
		t.Errorf("Status = %q, want %q", resp.Status, "DONE")
	}
}

func TestTaskUpdateStatus_BadValue(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	taskID := uuid.New()
	svc.On("UpdateStatus", mock.Anything, testToken, taskID, task.Status("PAUSED")).
		Return(nil, &domain.ValidationError{Fields: map[string]string{"status": "invalid: PAUSED"}})
	body := jsonBody(t, dto.UpdateTaskStatusRequest{Status: "PAUSED"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/tasks/"+taskID.String()+"/status", body)
	req = withChiParams(req, map[string]string{"taskId": taskID.String()})
	h.UpdateStatus(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- Delete ---

func TestTaskDelete_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTaskHandler(t)

	taskID := uuid.New()
	svc.On("Delete", mock.Anything, testToken, taskID).Return(nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/v1/tasks/"+taskID.String(), nil)
	req = withChiParams(req, map[string]string{"taskId": taskID.String()})
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
}
