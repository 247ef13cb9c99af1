package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserRegisteredEvent is emitted after a user and their Inbox are committed.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	InboxID      string    `json:"inbox_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserRegisteredV1 is the typed event definition for user registration.
// Subject: events.account.v1.user-registered
var UserRegisteredV1 = helper.EventDefinition[UserRegisteredEvent](
	"account", "UserRegistered", "v1",
)

// ListDeletedEvent is emitted when a list is deleted together with its tasks.
type ListDeletedEvent struct {
	ListID         string    `json:"list_id"`
	UserID         string    `json:"user_id"`
	DeletedTaskIDs []string  `json:"deleted_task_ids"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// ListDeletedV1 is the typed event definition for list deletion.
// Subject: events.account.v1.list-deleted
var ListDeletedV1 = helper.EventDefinition[ListDeletedEvent](
	"account", "ListDeleted", "v1",
)
