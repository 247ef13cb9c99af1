package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/domain/user"
	"gorm.io/gorm"
)

// Owned is the set of entities that carry a user_id owner column.
type Owned interface {
	user.List | task.Task | timeentry.TimeEntry
	Kind() string
}

// Resolve loads the entity with the given id if it belongs to principal.
// A missing entity and one owned by someone else both yield failure.ErrNotFound.
//
// db may be a transaction; callers that write after resolving should pass
// the transaction so both steps commit together.
func Resolve[T Owned](ctx context.Context, db *gorm.DB, id, principal string) (*T, error) {
	var entity T
	if id == "" || principal == "" {
		return nil, failure.NotFound(entity.Kind())
	}

	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, principal).
		Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, failure.NotFound(entity.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", entity.Kind(), err)
	}
	return &entity, nil
}
