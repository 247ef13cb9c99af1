package activity

import (
	"context"

	"github.com/example/task-tracker/modules/bus"
	"github.com/go-monolith/mono"
)

// ActivityPort reads the activity feed.
type ActivityPort interface {
	RecentActivity(ctx context.Context, userID string, limit int) ([]Entry, error)
}

type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for the activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

func (a *activityAdapter) RecentActivity(ctx context.Context, userID string, limit int) ([]Entry, error) {
	var resp RecentActivityResponse
	req := RecentActivityRequest{UserID: userID, Limit: limit}
	if err := bus.Call(ctx, a.container, "recent-activity", &req, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}
