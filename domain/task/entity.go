package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/user"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", failure.Validation("invalid status %q: must be one of planned, in_progress, done", raw)
	}
	return s, nil
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority validates a raw priority value. Empty means medium.
func ParsePriority(raw string) (Priority, error) {
	if raw == "" {
		return PriorityMedium, nil
	}
	p := Priority(raw)
	if !p.Valid() {
		return "", failure.Validation("invalid priority %q: must be one of low, medium, high", raw)
	}
	return p, nil
}

// MaxTitleLength is the maximum number of characters in a title.
const MaxTitleLength = 500

// NormalizeTitle trims the title and checks its length.
func NormalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", failure.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", failure.Validation("title must be at most %d characters", MaxTitleLength)
	}
	return title, nil
}

// Task is a unit of work belonging to exactly one list.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"size:36;not null;index:idx_tasks_user_list_status,priority:1" json:"user_id"`
	ListID      string     `gorm:"size:36;not null;index:idx_tasks_user_list_status,priority:2;index" json:"list_id"`
	Title       string     `gorm:"size:500;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      Status     `gorm:"size:20;not null;index:idx_tasks_user_list_status,priority:3;index:idx_tasks_priority_status,priority:2" json:"status"`
	Priority    Priority   `gorm:"size:10;not null;index:idx_tasks_priority_status,priority:1" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	SortOrder   int        `gorm:"not null" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Deleting the owning list or user removes the task in the store.
	List *user.List `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"-"`
	User *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM.
func (Task) TableName() string { return "tasks" }

// Kind names the entity in not-found messages.
func (Task) Kind() string { return "task" }
