// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unbacklog/backlog-service/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	storyHandler *handlers.StoryHandler,
	sprintHandler *handlers.SprintHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		// Account lifecycle.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/me", authHandler.Me)

		// Projects and their rosters.
		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)

		// Stories, nested under the owning project.
		r.Get("/projects/{projectId}/stories", storyHandler.List)
		r.Post("/projects/{projectId}/stories", storyHandler.Create)
		r.Patch("/projects/{projectId}/stories/{storyId}", storyHandler.Update)
		r.Delete("/projects/{projectId}/stories/{storyId}", storyHandler.Delete)

		// Sprints, nested under the owning project.
		r.Get("/projects/{projectId}/sprints", sprintHandler.List)
		r.Post("/projects/{projectId}/sprints", sprintHandler.Create)
		r.Patch("/projects/{projectId}/sprints/{sprintId}", sprintHandler.Update)
		r.Delete("/projects/{projectId}/sprints/{sprintId}", sprintHandler.Delete)

		// Tasks: listing and creation per sprint, the rest by task ID.
		r.Get("/sprints/{sprintId}/tasks", taskHandler.List)
		r.Post("/sprints/{sprintId}/tasks", taskHandler.Create)
		r.Patch("/tasks/{taskId}", taskHandler.Update)
		r.Delete("/tasks/{taskId}", taskHandler.Delete)
		r.Patch("/tasks/{taskId}/status", taskHandler.UpdateStatus)
	})

	return r
}
