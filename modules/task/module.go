package task

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/events"
	"github.com/example/task-tracker/modules/bus"
	"github.com/example/task-tracker/modules/storage"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// TaskModule provides the task lifecycle services.
type TaskModule struct {
	store    *storage.Module
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.EventEmitterModule = (*TaskModule)(nil)

func NewModule(store *storage.Module, logger types.Logger) *TaskModule {
	return &TaskModule{
		store:  store,
		logger: logger,
	}
}

func (m *TaskModule) Name() string {
	return "task"
}

func (m *TaskModule) Dependencies() []string {
	return []string{"storage"}
}

func (m *TaskModule) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

func (m *TaskModule) SetEventBus(eb mono.EventBus) {
	m.eventBus = eb
}

func (m *TaskModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskCreatedV1.ToBase(),
		events.TaskStatusChangedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-task", json.Unmarshal, json.Marshal, m.createTask,
	); err != nil {
		return fmt.Errorf("failed to register create-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-task", json.Unmarshal, json.Marshal, m.getTask,
	); err != nil {
		return fmt.Errorf("failed to register get-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-task", json.Unmarshal, json.Marshal, m.updateTask,
	); err != nil {
		return fmt.Errorf("failed to register update-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "set-status", json.Unmarshal, json.Marshal, m.setStatus,
	); err != nil {
		return fmt.Errorf("failed to register set-status service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"create-task", "get-task", "list-tasks", "update-task", "set-status", "delete-task"})
	return nil
}

func (m *TaskModule) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}
	m.service = NewService(NewRepository(db), nil)

	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, events will not be published")
	}
	m.logger.Info("Task module started")
	return nil
}

func (m *TaskModule) Stop(_ context.Context) error {
	m.logger.Info("Task module stopped")
	return nil
}

func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.UserID, req.CreateInput)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TaskResponse{Outcome: outcome}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    t.ID,
			ListID:    t.ListID,
			UserID:    t.UserID,
			Title:     t.Title,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			m.logger.Warn("Failed to publish TaskCreated event", "task_id", t.ID, "error", err)
		}
	}

	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Get(ctx, req.UserID, req.TaskID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TaskResponse{Outcome: outcome}, err
	}
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.UserID, req.ListID, req.Status, req.Priority)
	if err != nil {
		outcome, err := bus.Reply(err)
		return ListTasksResponse{Outcome: outcome}, err
	}
	return ListTasksResponse{Tasks: tasks}, nil
}

func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, tr, err := m.service.Update(ctx, req.UserID, req.TaskID, req.Changes)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TaskResponse{Outcome: outcome}, err
	}
	m.publishTransition(t, tr)
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) setStatus(ctx context.Context, req SetStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	t, tr, err := m.service.SetStatus(ctx, req.UserID, req.TaskID, req.Status)
	if err != nil {
		outcome, err := bus.Reply(err)
		return TaskResponse{Outcome: outcome}, err
	}
	m.publishTransition(t, tr)
	return TaskResponse{Task: t}, nil
}

func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	t, err := m.service.Delete(ctx, req.UserID, req.TaskID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return DeleteTaskResponse{Outcome: outcome}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    t.ID,
			UserID:    t.UserID,
			DeletedAt: m.service.now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish TaskDeleted event", "task_id", t.ID, "error", err)
		}
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

func (m *TaskModule) publishTransition(t *domain.Task, tr Transition) {
	if !tr.Changed || m.eventBus == nil {
		return
	}
	event := events.TaskStatusChangedEvent{
		TaskID:      t.ID,
		UserID:      t.UserID,
		From:        string(tr.From),
		To:          string(tr.To),
		CompletedAt: t.CompletedAt,
		ChangedAt:   t.UpdatedAt,
	}
	if err := events.TaskStatusChangedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("Failed to publish TaskStatusChanged event", "task_id", t.ID, "error", err)
	}
}
