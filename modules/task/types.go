package task

import (
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/bus"
)

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	UserID string `json:"user_id"`
	CreateInput
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	bus.Outcome
	Task *domain.Task `json:"task,omitempty"`
}

// GetTaskRequest represents a get task request.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest represents a task listing with optional filters.
type ListTasksRequest struct {
	UserID   string `json:"user_id"`
	ListID   string `json:"list_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// ListTasksResponse carries the matching tasks.
type ListTasksResponse struct {
	bus.Outcome
	Tasks []domain.Task `json:"tasks"`
}

// UpdateTaskRequest represents a partial task update.
type UpdateTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Changes
}

// SetStatusRequest represents a status change.
type SetStatusRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// DeleteTaskRequest represents a task deletion request.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse represents a task deletion response.
type DeleteTaskResponse struct {
	bus.Outcome
	Deleted bool `json:"deleted"`
}
