package timetracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/bus"
	"github.com/example/task-tracker/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Module provides the time tracking services.
type Module struct {
	store    *storage.Module
	cacheCfg CacheConfig
	cache    *RedisSummaryCache
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)
var _ mono.EventConsumerModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new time tracking module.
func NewModule(store *storage.Module, cacheCfg CacheConfig, logger types.Logger) *Module {
	return &Module{
		store:    store,
		cacheCfg: cacheCfg,
		logger:   logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "timetracking"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"storage"}
}

// SetDependencyServiceContainer is a no-op; storage exposes no services.
func (m *Module) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

// SetEventBus receives the framework event bus.
func (m *Module) SetEventBus(eb mono.EventBus) {
	m.eventBus = eb
}

// EmitEvents declares the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TimerStartedV1.ToBase(),
		events.TimerStoppedV1.ToBase(),
	}
}

// RegisterEventConsumers subscribes to deletions that make cached summaries stale.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ListDeletedV1, m.handleListDeleted, m); err != nil {
		return fmt.Errorf("failed to register ListDeleted consumer: %w", err)
	}
	m.logger.Info("Registered event consumers", "events", []string{"TaskDeleted.v1", "ListDeleted.v1"})
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "start-timer", json.Unmarshal, json.Marshal, m.startTimer,
	); err != nil {
		return fmt.Errorf("failed to register start-timer service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "stop-timer", json.Unmarshal, json.Marshal, m.stopTimer,
	); err != nil {
		return fmt.Errorf("failed to register stop-timer service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "task-time-summary", json.Unmarshal, json.Marshal, m.taskSummary,
	); err != nil {
		return fmt.Errorf("failed to register task-time-summary service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-time-entries", json.Unmarshal, json.Marshal, m.listEntries,
	); err != nil {
		return fmt.Errorf("failed to register list-time-entries service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "active-timer", json.Unmarshal, json.Marshal, m.activeTimer,
	); err != nil {
		return fmt.Errorf("failed to register active-timer service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "describe-time-entry", json.Unmarshal, json.Marshal, m.describeEntry,
	); err != nil {
		return fmt.Errorf("failed to register describe-time-entry service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{
		"start-timer", "stop-timer", "task-time-summary", "list-time-entries", "active-timer", "describe-time-entry",
	})
	return nil
}

// Start connects the optional summary cache and wires the service.
func (m *Module) Start(ctx context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}

	var cache SummaryCache
	if m.cacheCfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: m.cacheCfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// The cache is an optimization; run without it.
			m.logger.Warn("Redis unavailable, summary cache disabled", "addr", m.cacheCfg.RedisAddr, "error", err)
			client.Close()
		} else {
			m.cache = NewRedisSummaryCache(client, m.cacheCfg.Prefix, m.cacheCfg.TTL)
			cache = m.cache
			m.logger.Info("Summary cache connected", "addr", m.cacheCfg.RedisAddr, "ttl", m.cacheCfg.TTL.String())
		}
	}

	m.service = NewService(NewRepository(db), cache, nil, m.logger)

	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, events will not be published")
	}
	m.logger.Info("Time tracking module started")
	return nil
}

// Stop closes the cache connection.
func (m *Module) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	m.logger.Info("Time tracking module stopped")
	return nil
}

// Health reports the cache state; the database is covered by storage.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	details := map[string]any{"cache": "disabled"}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache"] = "unreachable"
		} else {
			details["cache"] = "connected"
			details["cache_stats"] = m.cache.Stats()
		}
	}
	return mono.HealthStatus{
		Healthy: m.service != nil,
		Message: "operational",
		Details: details,
	}
}

func (m *Module) startTimer(ctx context.Context, req StartTimerRequest, _ *mono.Msg) (TimeEntryResponse, error) {
	e, err := m.service.Start(ctx, req.UserID, req.TaskID, req.Description)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TimeEntryResponse{Outcome: outcome}, err
	}

	if m.eventBus != nil {
		event := events.TimerStartedEvent{
			EntryID:   e.ID,
			TaskID:    e.TaskID,
			UserID:    e.UserID,
			StartTime: e.StartTime,
		}
		if err := events.TimerStartedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TimerStarted event", "entry_id", e.ID, "error", err)
		}
	}

	return TimeEntryResponse{Entry: e}, nil
}

func (m *Module) stopTimer(ctx context.Context, req StopTimerRequest, _ *mono.Msg) (TimeEntryResponse, error) {
	e, err := m.service.Stop(ctx, req.UserID, req.EntryID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TimeEntryResponse{Outcome: outcome}, err
	}

	if m.eventBus != nil {
		event := events.TimerStoppedEvent{
			EntryID:         e.ID,
			TaskID:          e.TaskID,
			UserID:          e.UserID,
			EndTime:         *e.EndTime,
			DurationSeconds: e.DurationSeconds,
		}
		if err := events.TimerStoppedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TimerStopped event", "entry_id", e.ID, "error", err)
		}
	}

	return TimeEntryResponse{Entry: e}, nil
}

func (m *Module) taskSummary(ctx context.Context, req TaskSummaryRequest, _ *mono.Msg) (TaskSummaryResponse, error) {
	summary, err := m.service.TaskSummary(ctx, req.UserID, req.TaskID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TaskSummaryResponse{Outcome: outcome}, err
	}
	return TaskSummaryResponse{Summary: summary}, nil
}

func (m *Module) listEntries(ctx context.Context, req ListEntriesRequest, _ *mono.Msg) (ListEntriesResponse, error) {
	entries, err := m.service.ListEntries(ctx, req.UserID, req.TaskID, req.OnlyActive)
	if err != nil {
		outcome, err := bus.Reply(err)
		return ListEntriesResponse{Outcome: outcome}, err
	}
	return ListEntriesResponse{Entries: entries}, nil
}

func (m *Module) activeTimer(ctx context.Context, req ActiveTimerRequest, _ *mono.Msg) (ActiveTimerResponse, error) {
	e, elapsed, err := m.service.ActiveTimer(ctx, req.UserID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return ActiveTimerResponse{Outcome: outcome}, err
	}
	return ActiveTimerResponse{Entry: e, ElapsedSeconds: elapsed}, nil
}

func (m *Module) describeEntry(ctx context.Context, req DescribeEntryRequest, _ *mono.Msg) (TimeEntryResponse, error) {
	e, err := m.service.UpdateDescription(ctx, req.UserID, req.EntryID, req.Description)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TimeEntryResponse{Outcome: outcome}, err
	}
	return TimeEntryResponse{Entry: e}, nil
}

func (m *Module) handleTaskDeleted(ctx context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	if m.service == nil {
		return nil
	}
	m.service.InvalidateSummaries(ctx, event.TaskID)
	return nil
}

func (m *Module) handleListDeleted(ctx context.Context, event events.ListDeletedEvent, _ *mono.Msg) error {
	if m.service == nil {
		return nil
	}
	m.service.InvalidateSummaries(ctx, event.DeletedTaskIDs...)
	m.logger.Debug("Invalidated summaries for deleted list", "list_id", event.ListID, "tasks", len(event.DeletedTaskIDs))
	return nil
}
