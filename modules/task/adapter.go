package task

import (
	"context"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/modules/bus"
	"github.com/go-monolith/mono"
)

// TaskPort defines the task operations other modules depend on.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) ([]domain.Task, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error)
	SetStatus(ctx context.Context, req *SetStatusRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// taskAdapter wraps ServiceContainer for type-safe cross-module communication.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := bus.Call(ctx, a.container, "create-task", req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *taskAdapter) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	var resp TaskResponse
	if err := bus.Call(ctx, a.container, "get-task", &GetTaskRequest{UserID: userID, TaskID: taskID}, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *taskAdapter) ListTasks(ctx context.Context, req *ListTasksRequest) ([]domain.Task, error) {
	var resp ListTasksResponse
	if err := bus.Call(ctx, a.container, "list-tasks", req, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := bus.Call(ctx, a.container, "update-task", req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *taskAdapter) SetStatus(ctx context.Context, req *SetStatusRequest) (*domain.Task, error) {
	var resp TaskResponse
	if err := bus.Call(ctx, a.container, "set-status", req, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

func (a *taskAdapter) DeleteTask(ctx context.Context, userID, taskID string) error {
	var resp DeleteTaskResponse
	return bus.Call(ctx, a.container, "delete-task", &DeleteTaskRequest{UserID: userID, TaskID: taskID}, &resp)
}
