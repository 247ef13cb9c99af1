package activity

import "github.com/example/task-tracker/modules/bus"

// RecentActivityRequest asks for the latest feed entries of a user.
type RecentActivityRequest struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit"`
}

// RecentActivityResponse carries feed entries, newest first.
type RecentActivityResponse struct {
	bus.Outcome
	Entries []Entry `json:"entries"`
}
