package handlers

import (
	"net/http"

	"github.com/unbacklog/backlog-service/internal/adapters/http/dto"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// StoryHandler handles HTTP requests for the user-story lifecycle, nested
// under the owning project.
type StoryHandler struct {
	svc ports.StoryService
}

// NewStoryHandler creates a new StoryHandler with the given service port.
func NewStoryHandler(svc ports.StoryService) *StoryHandler {
	return &StoryHandler{svc: svc}
}

// List handles GET /api/v1/projects/{projectId}/stories.
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	stories, err := h.svc.List(r.Context(), bearerToken(r), projectID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryListResponse(stories))
}

// Create handles POST /api/v1/projects/{projectId}/stories.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.svc.Create(r.Context(), bearerToken(r), projectID, mapStoryCreate(&req))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreatedResponse{ID: id})
}

// Update handles PATCH /api/v1/projects/{projectId}/stories/{storyId}.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	storyID, err := parseUUID(r, "storyId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.Update(r.Context(), bearerToken(r), projectID, storyID, mapStoryPatch(&req))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStoryResponse(updated))
}

// Delete handles DELETE /api/v1/projects/{projectId}/stories/{storyId}.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	storyID, err := parseUUID(r, "storyId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), bearerToken(r), projectID, storyID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
