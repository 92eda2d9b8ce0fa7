package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
)

const testToken = "test-access-token"

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", testToken)
	return req
}

func validUser() *user.User {
	return &user.User{
		ID:        uuid.New(),
		Name:      "Grace Hopper",
		Email:     "grace@example.com",
		CreatedAt: testTime,
	}
}

func validStory(projectID uuid.UUID) story.Story {
	return story.Story{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     "As a shopper I can pay by card",
		Priority:  story.PriorityMedium,
		Status:    story.StatusToDo,
	}
}

func validSprint(projectID uuid.UUID) sprint.Sprint {
	return sprint.Sprint{
		ID:        uuid.New(),
		ProjectID: projectID,
		Objective: "Ship the payment flow",
		Status:    sprint.StatusPlanned,
	}
}

func validTask(sprintID uuid.UUID) task.Task {
	storyID := uuid.New()
	return task.Task{
		ID:        uuid.New(),
		SprintID:  sprintID,
		StoryID:   &storyID,
		Title:     "Wire the card tokenizer",
		Status:    task.StatusToDo,
		Priority:  task.PriorityMedium,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
