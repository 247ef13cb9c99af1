package timeentry

import (
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
)

// TimeEntry is one contiguous tracked interval on a task.
// An entry with a nil EndTime is the user's running timer.
type TimeEntry struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	UserID          string     `gorm:"size:36;not null;index:idx_time_entries_user_start,priority:1" json:"user_id"`
	TaskID          string     `gorm:"size:36;not null;index" json:"task_id"`
	StartTime       time.Time  `gorm:"not null;index:idx_time_entries_user_start,priority:2" json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `gorm:"not null" json:"duration_seconds"`
	Description     string     `gorm:"type:text" json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Task *task.Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	User *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM.
func (TimeEntry) TableName() string { return "time_entries" }

// Kind names the entity in not-found messages.
func (TimeEntry) Kind() string { return "time entry" }

// Active reports whether the entry is still running.
func (e *TimeEntry) Active() bool {
	return e.EndTime == nil
}

// Stop closes the entry at end.
func (e *TimeEntry) Stop(end time.Time) {
	e.EndTime = &end
	e.DurationSeconds = DurationBetween(e.StartTime, end)
}

// Elapsed returns the tracked seconds so far: the live duration for a
// running entry, the stored one otherwise.
func (e *TimeEntry) Elapsed(now time.Time) int64 {
	if e.Active() {
		return DurationBetween(e.StartTime, now)
	}
	return e.DurationSeconds
}

// DurationBetween returns the whole seconds from start to end, rounded down.
// A negative interval (clock moved backwards) counts as zero.
func DurationBetween(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// FormatDuration renders seconds as HH:MM:SS. Hours are not capped at 24.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// Summary aggregates the finished entries of a task.
type Summary struct {
	TaskID        string `json:"task_id"`
	TotalSeconds  int64  `json:"total_seconds"`
	EntryCount    int64  `json:"entry_count"`
	FormattedTime string `json:"formatted_time"`
}

// NewSummary builds a Summary and fills in the formatted total.
func NewSummary(taskID string, totalSeconds, entryCount int64) Summary {
	return Summary{
		TaskID:        taskID,
		TotalSeconds:  totalSeconds,
		EntryCount:    entryCount,
		FormattedTime: FormatDuration(totalSeconds),
	}
}
