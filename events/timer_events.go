package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TimerStartedEvent is emitted when a user starts tracking time on a task.
type TimerStartedEvent struct {
	EntryID   string    `json:"entry_id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
}

// TimerStartedV1 is the typed event definition for timer start.
// Subject: events.timetracking.v1.timer-started
var TimerStartedV1 = helper.EventDefinition[TimerStartedEvent](
	"timetracking", "TimerStarted", "v1",
)

// TimerStoppedEvent is emitted when a running entry is stopped.
type TimerStoppedEvent struct {
	EntryID         string    `json:"entry_id"`
	TaskID          string    `json:"task_id"`
	UserID          string    `json:"user_id"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// TimerStoppedV1 is the typed event definition for timer stop.
// Subject: events.timetracking.v1.timer-stopped
var TimerStoppedV1 = helper.EventDefinition[TimerStoppedEvent](
	"timetracking", "TimerStopped", "v1",
)
