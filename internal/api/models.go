package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateProfileRequest defines the payload for the profile update
// endpoint. Both fields are optional.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UserResponse is the user projection returned by auth endpoints.
// It never carries the password or its hash.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResponse defines the successful response for the registration and
// login endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateTaskRequest defines the payload for task creation. The creator
// is always the authenticated caller; it is never accepted from the body.
type CreateTaskRequest struct {
	Title        string     `json:"title"       validate:"required,min=1,max=100"`
	Description  string     `json:"description" validate:"required"`
	DueDate      time.Time  `json:"dueDate"     validate:"required"`
	Priority     string     `json:"priority"    validate:"required,oneof=Low Medium High Urgent"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest defines the patch payload for task updates.
// All fields are optional.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=100"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Priority     *string    `json:"priority,omitempty"    validate:"omitempty,oneof=Low Medium High Urgent"`
	Status       *string    `json:"status,omitempty"      validate:"omitempty,oneof=ToDo InProgress Review Completed"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

// TaskResponse is the expanded task representation returned by all task
// endpoints.
type TaskResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"dueDate"`
	Priority    domain.Priority `json:"priority"`
	Status      domain.Status   `json:"status"`
	Creator     domain.UserRef  `json:"creator"`
	AssignedTo  *domain.UserRef `json:"assignedTo,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Creator != nil {
		resp.Creator = *task.Creator
	}
	return resp
}

func tasksToResponse(tasks []*domain.Task) TaskListResponse {
	out := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		out.Tasks = append(out.Tasks, taskToResponse(task))
	}
	return out
}
