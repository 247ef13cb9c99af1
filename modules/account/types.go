package account

import (
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/bus"
)

// RegisterUserRequest represents a user registration request.
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserResponse carries the new user and their Inbox.
type RegisterUserResponse struct {
	bus.Outcome
	User  *user.User `json:"user,omitempty"`
	Inbox *user.List `json:"inbox,omitempty"`
}

// GetUserRequest represents a get user request.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	bus.Outcome
	User *user.User `json:"user,omitempty"`
}

// CreateListRequest represents a list creation request.
type CreateListRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// ListResponse wraps a single list.
type ListResponse struct {
	bus.Outcome
	List *user.List `json:"list,omitempty"`
}

// ListListsRequest asks for all lists of a user.
type ListListsRequest struct {
	UserID string `json:"user_id"`
}

// ListListsResponse carries a user's lists.
type ListListsResponse struct {
	bus.Outcome
	Lists []user.List `json:"lists"`
}

// DeleteListRequest represents a list deletion request.
type DeleteListRequest struct {
	UserID string `json:"user_id"`
	ListID string `json:"list_id"`
}

// DeleteListResponse reports what the cascade removed.
type DeleteListResponse struct {
	bus.Outcome
	DeletedTaskIDs []string `json:"deleted_task_ids"`
}
