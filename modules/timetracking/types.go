package timetracking

import (
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/modules/bus"
)

// StartTimerRequest starts a timer on a task.
type StartTimerRequest struct {
	UserID      string `json:"user_id"`
	TaskID      string `json:"task_id"`
	Description string `json:"description,omitempty"`
}

// StopTimerRequest stops a running entry.
type StopTimerRequest struct {
	UserID  string `json:"user_id"`
	EntryID string `json:"entry_id"`
}

// TimeEntryResponse wraps a single entry.
type TimeEntryResponse struct {
	bus.Outcome
	Entry *timeentry.TimeEntry `json:"entry,omitempty"`
}

// TaskSummaryRequest asks for the tracked total of a task.
type TaskSummaryRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// TaskSummaryResponse carries a task's tracked total.
type TaskSummaryResponse struct {
	bus.Outcome
	Summary timeentry.Summary `json:"summary"`
}

// ListEntriesRequest lists entries with optional filters.
type ListEntriesRequest struct {
	UserID     string `json:"user_id"`
	TaskID     string `json:"task_id,omitempty"`
	OnlyActive bool   `json:"only_active,omitempty"`
}

// ListEntriesResponse carries the matching entries.
type ListEntriesResponse struct {
	bus.Outcome
	Entries []timeentry.TimeEntry `json:"entries"`
}

// ActiveTimerRequest asks for the principal's running entry.
type ActiveTimerRequest struct {
	UserID string `json:"user_id"`
}

// ActiveTimerResponse carries the running entry, if any.
type ActiveTimerResponse struct {
	bus.Outcome
	Entry          *timeentry.TimeEntry `json:"entry,omitempty"`
	ElapsedSeconds int64                `json:"elapsed_seconds"`
}

// DescribeEntryRequest replaces an entry's description.
type DescribeEntryRequest struct {
	UserID      string `json:"user_id"`
	EntryID     string `json:"entry_id"`
	Description string `json:"description"`
}
