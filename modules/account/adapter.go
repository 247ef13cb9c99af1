package account

import (
	"context"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/bus"
	"github.com/go-monolith/mono"
)

// AccountPort is the account API used by other modules.
type AccountPort interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*RegisterUserResponse, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
	CreateList(ctx context.Context, req *CreateListRequest) (*user.List, error)
	ListLists(ctx context.Context, userID string) ([]user.List, error)
	DeleteList(ctx context.Context, userID, listID string) ([]string, error)
}

// accountAdapter implements AccountPort over the account service container.
type accountAdapter struct {
	container mono.ServiceContainer
}

// NewAccountAdapter creates a new adapter for account services.
func NewAccountAdapter(container mono.ServiceContainer) AccountPort {
	if container == nil {
		panic("account adapter requires non-nil ServiceContainer")
	}
	return &accountAdapter{container: container}
}

func (a *accountAdapter) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*RegisterUserResponse, error) {
	var resp RegisterUserResponse
	if err := bus.Call(ctx, a.container, "register-user", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *accountAdapter) GetUser(ctx context.Context, userID string) (*user.User, error) {
	var resp UserResponse
	if err := bus.Call(ctx, a.container, "get-user", &GetUserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (a *accountAdapter) CreateList(ctx context.Context, req *CreateListRequest) (*user.List, error) {
	var resp ListResponse
	if err := bus.Call(ctx, a.container, "create-list", req, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (a *accountAdapter) ListLists(ctx context.Context, userID string) ([]user.List, error) {
	var resp ListListsResponse
	if err := bus.Call(ctx, a.container, "list-lists", &ListListsRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp.Lists, nil
}

func (a *accountAdapter) DeleteList(ctx context.Context, userID, listID string) ([]string, error) {
	var resp DeleteListResponse
	req := DeleteListRequest{UserID: userID, ListID: listID}
	if err := bus.Call(ctx, a.container, "delete-list", &req, &resp); err != nil {
		return nil, err
	}
	return resp.DeletedTaskIDs, nil
}
