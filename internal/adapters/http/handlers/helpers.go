package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/adapters/http/dto"
	"github.com/unbacklog/backlog-service/internal/domain"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// bearerToken returns the raw Authorization header. Services strip the
// Bearer prefix themselves so adapters stay agnostic of the scheme.
func bearerToken(r *http.Request) string {
	return r.Header.Get("Authorization")
}

// parseUUID extracts a UUID path parameter from the chi URL params.
func parseUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{
			Fields: map[string]string{param: "must be a valid UUID"},
		}
	}
	return id, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

// mapStoryCreate converts a CreateStoryRequest to a domain Story. Priority
// defaults to MEDIUM and status to TO_DO when omitted.
func mapStoryCreate(req *dto.CreateStoryRequest) *story.Story {
	st := &story.Story{
		Title:       req.Title,
		Description: req.Description,
		Priority:    story.PriorityMedium,
		Status:      story.StatusToDo,
	}
	if req.Priority != "" {
		st.Priority = story.Priority(req.Priority)
	}
	if req.Status != "" {
		st.Status = story.Status(req.Status)
	}
	return st
}

// mapStoryPatch converts an UpdateStoryRequest to a service patch.
func mapStoryPatch(req *dto.UpdateStoryRequest) ports.StoryPatch {
	patch := ports.StoryPatch{
		Title:       req.Title,
		Description: req.Description,
		Sprint:      req.SprintID.Patch(),
	}
	if req.Priority != nil {
		p := story.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := story.Status(*req.Status)
		patch.Status = &s
	}
	return patch
}

// mapSprintDraft converts a CreateSprintRequest to a service draft. Dates
// have been validated as RFC 3339 by the DTO already.
func mapSprintDraft(req *dto.CreateSprintRequest) ports.SprintDraft {
	return ports.SprintDraft{
		Objective:  req.Objective,
		StartDate:  mapDate(req.StartDate),
		FinishDate: mapDate(req.FinishDate),
		Status:     sprint.Status(req.Status),
	}
}

// mapSprintPatch converts an UpdateSprintRequest to a service patch.
func mapSprintPatch(req *dto.UpdateSprintRequest) ports.SprintPatch {
	patch := ports.SprintPatch{
		Objective:  req.Objective,
		StartDate:  mapDate(req.StartDate),
		FinishDate: mapDate(req.FinishDate),
	}
	if req.Status != nil {
		s := sprint.Status(*req.Status)
		patch.Status = &s
	}
	return patch
}

// mapTaskDraft converts a CreateTaskRequest to a service draft. Priority
// defaults to MEDIUM and status to TO_DO when omitted.
func mapTaskDraft(req *dto.CreateTaskRequest) ports.TaskDraft {
	draft := ports.TaskDraft{
		Title:         req.Title,
		Description:   req.Description,
		Status:        task.StatusToDo,
		Priority:      task.PriorityMedium,
		StoryID:       req.StoryID,
		ResponsibleID: req.ResponsibleID,
	}
	if req.Status != "" {
		draft.Status = task.Status(req.Status)
	}
	if req.Priority != "" {
		draft.Priority = task.Priority(req.Priority)
	}
	return draft
}

// mapTaskPatch converts an UpdateTaskRequest to a service patch.
func mapTaskPatch(req *dto.UpdateTaskRequest) ports.TaskPatch {
	patch := ports.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Story:       req.StoryID.Patch(),
		Responsible: req.ResponsibleID.Patch(),
	}
	if req.Status != nil {
		s := task.Status(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := task.Priority(*req.Priority)
		patch.Priority = &p
	}
	return patch
}

// mapDate converts a validated RFC 3339 string to a time pointer.
func mapDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := dto.ParseDate(*raw)
	if err != nil {
		return nil
	}
	return &t
}
