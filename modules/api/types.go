package api

import (
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/domain/user"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse carries the new account and an access token.
type RegisterResponse struct {
	User        *user.User `json:"user"`
	Inbox       *user.List `json:"inbox"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
}

// CreateListRequest represents a list creation request.
type CreateListRequest struct {
	Name      string `json:"name"`
	SortOrder *int   `json:"sort_order"`
}

// SetStatusRequest represents a status change.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// StartTimerRequest represents a timer start.
type StartTimerRequest struct {
	TaskID      string `json:"task_id"`
	Description string `json:"description"`
}

// DescribeEntryRequest represents a time entry description edit.
type DescribeEntryRequest struct {
	Description string `json:"description"`
}

// ActiveTimerResponse carries the running entry, or null.
type ActiveTimerResponse struct {
	Entry          *timeentry.TimeEntry `json:"entry"`
	ElapsedSeconds int64                `json:"elapsed_seconds"`
	FormattedTime  string               `json:"formatted_time"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
