// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain/project"
	"github.com/unbacklog/backlog-service/internal/domain/sprint"
	"github.com/unbacklog/backlog-service/internal/domain/story"
	"github.com/unbacklog/backlog-service/internal/domain/task"
	"github.com/unbacklog/backlog-service/internal/domain/user"
)

// TokenResponse carries an access token issued by register or login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ToTokenResponse wraps a signed token in a bearer envelope.
func ToTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "Bearer"}
}

// UserResponse represents an account in HTTP responses.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"created_at"`
}

// ToUserResponse converts a domain User entity to an HTTP response DTO.
func ToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// MemberResponse represents a roster entry in HTTP responses.
type MemberResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

// ProjectResponse represents a single project with its roster.
type ProjectResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Members     []MemberResponse `json:"members,omitempty"`
	CreatedAt   string           `json:"created_at"`
}

// ProjectListResponse represents a list of projects in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// ToProjectResponse converts a project summary to an HTTP response DTO.
func ToProjectResponse(s project.Summary) ProjectResponse {
	resp := ProjectResponse{
		ID:          s.Project.ID,
		Name:        s.Project.Name,
		Description: s.Project.Description,
		CreatedAt:   s.Project.CreatedAt.Format(time.RFC3339),
	}
	if len(s.Members) > 0 {
		resp.Members = make([]MemberResponse, len(s.Members))
		for i, m := range s.Members {
			resp.Members[i] = MemberResponse{
				UserID: m.UserID,
				Name:   m.Name,
				Email:  m.Email,
				Role:   string(m.Role),
			}
		}
	}
	return resp
}

// ToProjectListResponse converts project summaries to an HTTP list response.
func ToProjectListResponse(summaries []project.Summary) ProjectListResponse {
	items := make([]ProjectResponse, len(summaries))
	for i, s := range summaries {
		items[i] = ToProjectResponse(s)
	}
	return ProjectListResponse{Projects: items, Count: len(items)}
}

// StoryResponse represents a user story in HTTP responses.
type StoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	SprintID    *uuid.UUID `json:"sprint_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// StoryListResponse represents a list of stories in HTTP responses.
type StoryListResponse struct {
	Stories []StoryResponse `json:"stories"`
	Count   int             `json:"count"`
}

// ToStoryResponse converts a domain Story entity to an HTTP response DTO.
func ToStoryResponse(st *story.Story) StoryResponse {
	return StoryResponse{
		ID:          st.ID,
		ProjectID:   st.ProjectID,
		SprintID:    st.SprintID,
		Title:       st.Title,
		Description: st.Description,
		Priority:    string(st.Priority),
		Status:      string(st.Status),
	}
}

// ToStoryListResponse converts a slice of stories to an HTTP list response.
func ToStoryListResponse(stories []story.Story) StoryListResponse {
	items := make([]StoryResponse, len(stories))
	for i := range stories {
		items[i] = ToStoryResponse(&stories[i])
	}
	return StoryListResponse{Stories: items, Count: len(items)}
}

// SprintResponse represents a sprint in HTTP responses. Dates are omitted
// for unscheduled sprints.
type SprintResponse struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	Objective  string    `json:"objective"`
	StartDate  *string   `json:"start_date,omitempty"`
	FinishDate *string   `json:"finish_date,omitempty"`
	Status     string    `json:"status"`
}

// SprintListResponse represents a list of sprints in HTTP responses.
type SprintListResponse struct {
	Sprints []SprintResponse `json:"sprints"`
	Count   int              `json:"count"`
}

// ToSprintResponse converts a domain Sprint entity to an HTTP response DTO.
func ToSprintResponse(sp *sprint.Sprint) SprintResponse {
	return SprintResponse{
		ID:         sp.ID,
		ProjectID:  sp.ProjectID,
		Objective:  sp.Objective,
		StartDate:  formatDate(sp.StartDate),
		FinishDate: formatDate(sp.FinishDate),
		Status:     string(sp.Status),
	}
}

// ToSprintListResponse converts a slice of sprints to an HTTP list response.
func ToSprintListResponse(sprints []sprint.Sprint) SprintListResponse {
	items := make([]SprintResponse, len(sprints))
	for i := range sprints {
		items[i] = ToSprintResponse(&sprints[i])
	}
	return SprintListResponse{Sprints: items, Count: len(items)}
}

// TaskResponse represents a task in HTTP responses.
type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	SprintID      uuid.UUID  `json:"sprint_id"`
	StoryID       *uuid.UUID `json:"story_id,omitempty"`
	ResponsibleID *uuid.UUID `json:"responsible_id,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	CreatedAt     string     `json:"created_at"`
	UpdatedAt     string     `json:"updated_at"`
}

// TaskListResponse represents a list of tasks in HTTP responses.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ToTaskResponse converts a domain Task entity to an HTTP response DTO.
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		SprintID:      t.SprintID,
		StoryID:       t.StoryID,
		ResponsibleID: t.ResponsibleID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTaskListResponse converts a slice of tasks to an HTTP list response.
func ToTaskListResponse(tasks []task.Task) TaskListResponse {
	items := make([]TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = ToTaskResponse(&tasks[i])
	}
	return TaskListResponse{Tasks: items, Count: len(items)}
}

// CreatedResponse carries the ID of a newly created resource when the full
// representation is not returned.
type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
