package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/bus"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultLimit is the number of entries returned when a request names none.
const DefaultLimit = 20

// Module records domain events into a per-user activity feed.
// The feed is observational; nothing reads it back as state.
type Module struct {
	feed   *Feed
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)

// NewModule creates an activity module keeping capacity entries per user.
func NewModule(capacity int, logger types.Logger) *Module {
	return &Module{
		feed:   NewFeed(capacity, DefaultMaxUsers),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every domain event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ListDeletedV1, m.handleListDeleted, m); err != nil {
		return fmt.Errorf("failed to register ListDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TimerStartedV1, m.handleTimerStarted, m); err != nil {
		return fmt.Errorf("failed to register TimerStarted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TimerStoppedV1, m.handleTimerStopped, m); err != nil {
		return fmt.Errorf("failed to register TimerStopped consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "count", 7)
	return nil
}

// RegisterServices registers the recent-activity service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent-activity", json.Unmarshal, json.Marshal, m.recentActivity,
	); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}
	m.logger.Info("Registered services", "services", []string{"recent-activity"})
	return nil
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started", "capacity", m.feed.capacity)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped")
	return nil
}

// Recent returns the user's latest entries; see Feed.Recent.
func (m *Module) Recent(userID string, limit int) []Entry {
	return m.feed.Recent(userID, limit)
}

func (m *Module) recentActivity(_ context.Context, req RecentActivityRequest, _ *mono.Msg) (RecentActivityResponse, error) {
	if req.UserID == "" {
		outcome, err := bus.Reply(failure.Validation("user id is required"))
		return RecentActivityResponse{Outcome: outcome}, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return RecentActivityResponse{Entries: m.feed.Recent(req.UserID, limit)}, nil
}

func (m *Module) handleUserRegistered(_ context.Context, event events.UserRegisteredEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeUserRegistered,
		SubjectID: event.UserID,
		Message:   fmt.Sprintf("Account %s created", event.Email),
		At:        event.RegisteredAt,
	})
	return nil
}

func (m *Module) handleListDeleted(_ context.Context, event events.ListDeletedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeListDeleted,
		SubjectID: event.ListID,
		Message:   fmt.Sprintf("List deleted with %d task(s)", len(event.DeletedTaskIDs)),
		At:        event.DeletedAt,
	})
	return nil
}

func (m *Module) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTaskCreated,
		SubjectID: event.TaskID,
		Message:   fmt.Sprintf("Task '%s' created", event.Title),
		At:        event.CreatedAt,
	})
	return nil
}

func (m *Module) handleTaskStatusChanged(_ context.Context, event events.TaskStatusChangedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTaskStatusChanged,
		SubjectID: event.TaskID,
		Message:   fmt.Sprintf("Task moved from %s to %s", event.From, event.To),
		At:        event.ChangedAt,
	})
	return nil
}

func (m *Module) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTaskDeleted,
		SubjectID: event.TaskID,
		Message:   "Task deleted",
		At:        event.DeletedAt,
	})
	return nil
}

func (m *Module) handleTimerStarted(_ context.Context, event events.TimerStartedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTimerStarted,
		SubjectID: event.EntryID,
		Message:   "Timer started",
		At:        event.StartTime,
	})
	return nil
}

func (m *Module) handleTimerStopped(_ context.Context, event events.TimerStoppedEvent, _ *mono.Msg) error {
	m.feed.Add(event.UserID, Entry{
		Type:      TypeTimerStopped,
		SubjectID: event.EntryID,
		Message:   fmt.Sprintf("Timer stopped after %s", timeentry.FormatDuration(event.DurationSeconds)),
		At:        event.EndTime,
	})
	return nil
}
