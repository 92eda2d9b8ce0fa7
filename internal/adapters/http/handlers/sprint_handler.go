package handlers

import (
	"net/http"

	"github.com/unbacklog/backlog-service/internal/adapters/http/dto"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// SprintHandler handles HTTP requests for the sprint lifecycle, nested under
// the owning project.
type SprintHandler struct {
	svc ports.SprintService
}

// NewSprintHandler creates a new SprintHandler with the given service port.
func NewSprintHandler(svc ports.SprintService) *SprintHandler {
	return &SprintHandler{svc: svc}
}

// List handles GET /api/v1/projects/{projectId}/sprints.
func (h *SprintHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprints, err := h.svc.List(r.Context(), bearerToken(r), projectID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintListResponse(sprints))
}

// Create handles POST /api/v1/projects/{projectId}/sprints.
func (h *SprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.CreateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.Create(r.Context(), bearerToken(r), projectID, mapSprintDraft(&req))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToSprintResponse(created))
}

// Update handles PATCH /api/v1/projects/{projectId}/sprints/{sprintId}.
func (h *SprintHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprintID, err := parseUUID(r, "sprintId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.UpdateSprintRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.Update(r.Context(), bearerToken(r), projectID, sprintID, mapSprintPatch(&req))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSprintResponse(updated))
}

// Delete handles DELETE /api/v1/projects/{projectId}/sprints/{sprintId}.
func (h *SprintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseUUID(r, "projectId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	sprintID, err := parseUUID(r, "sprintId")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), bearerToken(r), projectID, sprintID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
