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
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/mocks"
)

func newStoryHandler(t *testing.T) (*handlers.StoryHandler, *mocks.MockStoryService) {
	t.Helper()
	svc := mocks.NewMockStoryService(t)
	return handlers.NewStoryHandler(svc), svc
}

// --- List ---

func TestStoryList_Success(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	svc.On("List", mock.Anything, testToken, projectID).
		Return([]story.Story{validStory(projectID)}, nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/projects/"+projectID.String()+"/stories", nil)
	req = withChiParams(req, map[string]string{"projectId": projectID.String()})
	h.List(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.StoryListResponse](t, rec)
	if resp.Count != 1 {
		t.Errorf("Count = %d, want 1", resp.Count)
	}
}

func TestStoryList_BadProjectID(t *testing.T) {
	t.Parallel()
	h, _ := newStoryHandler(t)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/projects/nope/stories", nil)
	req = withChiParams(req, map[string]string{"projectId": "nope"})
	h.List(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestStoryList_NotAMember(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	svc.On("List", mock.Anything, testToken, projectID).
		Return(nil, domain.ErrForbidden)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/projects/"+projectID.String()+"/stories", nil)
	req = withChiParams(req, map[string]string{"projectId": projectID.String()})
	h.List(rec, req)

	requireStatus(t, rec, http.StatusForbidden)
}

// --- Create ---

func TestStoryCreate_Success(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	storyID := uuid.New()
	svc.On("Create", mock.Anything, testToken, projectID, mock.AnythingOfType("*story.Story")).
		Return(storyID, nil)

	body := jsonBody(t, dto.CreateStoryRequest{Title: "As a shopper I can pay by card"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/projects/"+projectID.String()+"/stories", body)
	req = withChiParams(req, map[string]string{"projectId": projectID.String()})
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.CreatedResponse](t, rec)
	if resp.ID != storyID {
		t.Errorf("ID = %v, want %v", resp.ID, storyID)
	}
}

func TestStoryCreate_ValidationError(t *testing.T) {
	t.Parallel()
	h, _ := newStoryHandler(t)

	projectID := uuid.New()
	body := jsonBody(t, dto.CreateStoryRequest{Title: ""})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/projects/"+projectID.String()+"/stories", body)
	req = withChiParams(req, map[string]string{"projectId": projectID.String()})
	h.Create(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- Update ---

func TestStoryUpdate_Success(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	updated := validStory(projectID)
	updated.Status = story.StatusDoing
	svc.On("Update", mock.Anything, testToken, projectID, updated.ID, mock.Anything).
		Return(&updated, nil)

	body := jsonBody(t, map[string]any{"status": "DOING"})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/projects/"+projectID.String()+"/stories/"+updated.ID.String(), body)
	req = withChiParams(req, map[string]string{"projectId": projectID.String(), "storyId": updated.ID.String()})
	h.Update(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.StoryResponse](t, rec)
	if resp.Status != "DOING" {
		t.Errorf("Status = %q, want %q", resp.Status, "DOING")
	}
}

func TestStoryUpdate_SprintFromOtherProject(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	storyID := uuid.New()
	svc.On("Update", mock.Anything, testToken, projectID, storyID, mock.Anything).
		Return(nil, domain.ErrConflict)

	sprintID := uuid.New()
	body := jsonBody(t, map[string]any{"sprint_id": sprintID})
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/v1/projects/"+projectID.String()+"/stories/"+storyID.String(), body)
	req = withChiParams(req, map[string]string{"projectId": projectID.String(), "storyId": storyID.String()})
	h.Update(rec, req)

	requireStatus(t, rec, http.StatusConflict)
}

// --- Delete ---

func TestStoryDelete_Success(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	storyID := uuid.New()
	svc.On("Delete", mock.Anything, testToken, projectID, storyID).Return(nil)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/v1/projects/"+projectID.String()+"/stories/"+storyID.String(), nil)
	req = withChiParams(req, map[string]string{"projectId": projectID.String(), "storyId": storyID.String()})
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
}

func TestStoryDelete_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newStoryHandler(t)

	projectID := uuid.New()
	storyID := uuid.New()
	svc.On("Delete", mock.Anything, testToken, projectID, storyID).
		Return(domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/v1/projects/"+projectID.String()+"/stories/"+storyID.String(), nil)
	req = withChiParams(req, map[string]string{"projectId": projectID.String(), "storyId": storyID.String()})
	h.Delete(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}
