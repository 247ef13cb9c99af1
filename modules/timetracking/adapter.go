package timetracking

import (
	"context"

	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/modules/bus"
	"github.com/go-monolith/mono"
)

// TimerPort defines the time tracking operations other modules depend on.
type TimerPort interface {
	StartTimer(ctx context.Context, req *StartTimerRequest) (*timeentry.TimeEntry, error)
	StopTimer(ctx context.Context, userID, entryID string) (*timeentry.TimeEntry, error)
	TaskSummary(ctx context.Context, userID, taskID string) (*timeentry.Summary, error)
	ListEntries(ctx context.Context, req *ListEntriesRequest) ([]timeentry.TimeEntry, error)
	ActiveTimer(ctx context.Context, userID string) (*ActiveTimerResponse, error)
	DescribeEntry(ctx context.Context, req *DescribeEntryRequest) (*timeentry.TimeEntry, error)
}

type timerAdapter struct {
	container mono.ServiceContainer
}

// NewTimerAdapter creates a new adapter for time tracking services.
func NewTimerAdapter(container mono.ServiceContainer) TimerPort {
	if container == nil {
		panic("timer adapter requires non-nil ServiceContainer")
	}
	return &timerAdapter{container: container}
}

func (a *timerAdapter) StartTimer(ctx context.Context, req *StartTimerRequest) (*timeentry.TimeEntry, error) {
	var resp TimeEntryResponse
	if err := bus.Call(ctx, a.container, "start-timer", req, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

func (a *timerAdapter) StopTimer(ctx context.Context, userID, entryID string) (*timeentry.TimeEntry, error) {
	var resp TimeEntryResponse
	if err := bus.Call(ctx, a.container, "stop-timer", &StopTimerRequest{UserID: userID, EntryID: entryID}, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

func (a *timerAdapter) TaskSummary(ctx context.Context, userID, taskID string) (*timeentry.Summary, error) {
	var resp TaskSummaryResponse
	if err := bus.Call(ctx, a.container, "task-time-summary", &TaskSummaryRequest{UserID: userID, TaskID: taskID}, &resp); err != nil {
		return nil, err
	}
	return &resp.Summary, nil
}

func (a *timerAdapter) ListEntries(ctx context.Context, req *ListEntriesRequest) ([]timeentry.TimeEntry, error) {
	var resp ListEntriesResponse
	if err := bus.Call(ctx, a.container, "list-time-entries", req, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (a *timerAdapter) ActiveTimer(ctx context.Context, userID string) (*ActiveTimerResponse, error) {
	var resp ActiveTimerResponse
	if err := bus.Call(ctx, a.container, "active-timer", &ActiveTimerRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *timerAdapter) DescribeEntry(ctx context.Context, req *DescribeEntryRequest) (*timeentry.TimeEntry, error) {
	var resp TimeEntryResponse
	if err := bus.Call(ctx, a.container, "describe-time-entry", req, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}
