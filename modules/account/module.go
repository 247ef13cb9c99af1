package account

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
)

// Module provides user registration and list management services.
type Module struct {
	store    *storage.Module
	cost     int
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.EventEmitterModule = (*Module)(nil)

// NewModule creates a new account module backed by store. Passwords are
// hashed with bcryptCost, or DefaultBcryptCost when it is not positive.
func NewModule(store *storage.Module, bcryptCost int, logger types.Logger) *Module {
	return &Module{
		store:  store,
		cost:   bcryptCost,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "account"
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
		events.UserRegisteredV1.ToBase(),
		events.ListDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "register-user", json.Unmarshal, json.Marshal, m.registerUser,
	); err != nil {
		return fmt.Errorf("failed to register register-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-user", json.Unmarshal, json.Marshal, m.getUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-list", json.Unmarshal, json.Marshal, m.createList,
	); err != nil {
		return fmt.Errorf("failed to register create-list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-lists", json.Unmarshal, json.Marshal, m.listLists,
	); err != nil {
		return fmt.Errorf("failed to register list-lists service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-list", json.Unmarshal, json.Marshal, m.deleteList,
	); err != nil {
		return fmt.Errorf("failed to register delete-list service: %w", err)
	}

	m.logger.Info("Registered services", "services", []string{"register-user", "get-user", "create-list", "list-lists", "delete-list"})
	return nil
}

// Start wires the service to the open database.
func (m *Module) Start(_ context.Context) error {
	db := m.store.DB()
	if db == nil {
		return fmt.Errorf("storage module not started")
	}
	m.service = NewService(NewRepository(db), m.cost)

	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, events will not be published")
	}
	m.logger.Info("Account module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Account module stopped")
	return nil
}

func (m *Module) registerUser(ctx context.Context, req RegisterUserRequest, _ *mono.Msg) (RegisterUserResponse, error) {
	u, inbox, err := m.service.RegisterUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		outcome, err := bus.Reply(err)
		return RegisterUserResponse{Outcome: outcome}, err
	}

	if m.eventBus != nil {
		event := events.UserRegisteredEvent{
			UserID:       u.ID,
			Email:        u.Email,
			InboxID:      inbox.ID,
			RegisteredAt: u.CreatedAt,
		}
		if err := events.UserRegisteredV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish UserRegistered event", "user_id", u.ID, "error", err)
		}
	}

	return RegisterUserResponse{User: u, Inbox: inbox}, nil
}

func (m *Module) getUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (UserResponse, error) {
	u, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return UserResponse{Outcome: outcome}, err
	}
	return UserResponse{User: u}, nil
}

func (m *Module) createList(ctx context.Context, req CreateListRequest, _ *mono.Msg) (ListResponse, error) {
	l, err := m.service.CreateList(ctx, req.UserID, req.Name, req.SortOrder)
	if err != nil {
		outcome, err := bus.Reply(err)
		return ListResponse{Outcome: outcome}, err
	}
	return ListResponse{List: l}, nil
}

func (m *Module) listLists(ctx context.Context, req ListListsRequest, _ *mono.Msg) (ListListsResponse, error) {
	lists, err := m.service.ListLists(ctx, req.UserID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return ListListsResponse{Outcome: outcome}, err
	}
	return ListListsResponse{Lists: lists}, nil
}

func (m *Module) deleteList(ctx context.Context, req DeleteListRequest, _ *mono.Msg) (DeleteListResponse, error) {
	taskIDs, err := m.service.DeleteList(ctx, req.UserID, req.ListID)
	if err != nil {
		outcome, err := bus.Reply(err)
		return DeleteListResponse{Outcome: outcome}, err
	}

	m.logger.Info("List deleted", "list_id", req.ListID, "user_id", req.UserID, "tasks", len(taskIDs))

	if m.eventBus != nil {
		event := events.ListDeletedEvent{
			ListID:         req.ListID,
			UserID:         req.UserID,
			DeletedTaskIDs: taskIDs,
			DeletedAt:      time.Now().UTC(),
		}
		if err := events.ListDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("Failed to publish ListDeleted event", "list_id", req.ListID, "error", err)
		}
	}

	return DeleteListResponse{DeletedTaskIDs: taskIDs}, nil
}
