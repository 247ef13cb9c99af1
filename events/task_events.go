package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskCreatedEvent is emitted when a new task is created.
type TaskCreatedEvent struct {
	TaskID    string    `json:"task_id"`
	ListID    string    `json:"list_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreatedV1 is the typed event definition for task creation.
// Subject: events.task.v1.task-created
var TaskCreatedV1 = helper.EventDefinition[TaskCreatedEvent](
	"task", "TaskCreated", "v1",
)

// TaskStatusChangedEvent is emitted when a task moves to a different status,
// whether through set-status or update-task.
type TaskStatusChangedEvent struct {
	TaskID      string     `json:"task_id"`
	UserID      string     `json:"user_id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ChangedAt   time.Time  `json:"changed_at"`
}

// TaskStatusChangedV1 is the typed event definition for status transitions.
// Subject: events.task.v1.task-status-changed
var TaskStatusChangedV1 = helper.EventDefinition[TaskStatusChangedEvent](
	"task", "TaskStatusChanged", "v1",
)

// TaskDeletedEvent is emitted when a task and its time entries are deleted.
type TaskDeletedEvent struct {
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TaskDeletedV1 is the typed event definition for task deletion.
// Subject: events.task.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskDeletedEvent](
	"task", "TaskDeleted", "v1",
)
