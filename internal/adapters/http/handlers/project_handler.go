package handlers

import (
	"net/http"

	"github.com/unbacklog/backlog-service/internal/adapters/http/dto"
	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/ports"
)

// ProjectHandler handles HTTP requests for project creation and listing.
type ProjectHandler struct {
	svc ports.ProjectService
}

// NewProjectHandler creates a new ProjectHandler with the given service port.
func NewProjectHandler(svc ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects handles GET /api/v1/projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListProjects(r.Context(), bearerToken(r))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectListResponse(summaries))
}

// CreateProject handles POST /api/v1/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	associates := make([]ports.Associate, len(req.Associates))
	for i, a := range req.Associates {
		associates[i] = ports.Associate{Email: a.Email, Role: project.Role(a.Role)}
	}

	if err := h.svc.CreateProject(r.Context(), bearerToken(r), req.Name, req.Description, associates); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
