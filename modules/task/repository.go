package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/failure"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/storage"
	"gorm.io/gorm"
)

// ListFilter narrows a task listing. Empty fields do not filter.
type ListFilter struct {
	ListID   string
	Status   domain.Status
	Priority domain.Priority
}

// Repository persists tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts t after checking that its list belongs to the same user.
// An unknown or foreign list is a validation failure, including a list
// deleted between the check and the insert.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := storage.Resolve[user.List](ctx, tx, t.ListID, t.UserID); err != nil {
			if errors.Is(err, failure.ErrNotFound) {
				return failure.Validation("list %q does not exist", t.ListID)
			}
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			if storage.IsForeignKeyViolation(err) {
				return failure.Validation("list %q does not exist", t.ListID)
			}
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
}

// Find returns an owned task.
func (r *Repository) Find(ctx context.Context, principal, id string) (*domain.Task, error) {
	return storage.Resolve[domain.Task](ctx, r.db, id, principal)
}

// List returns the principal's tasks by sort order, newest first within
// the same order.
func (r *Repository) List(ctx context.Context, principal string, filter ListFilter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", principal)
	if filter.ListID != "" {
		query = query.Where("list_id = ?", filter.ListID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var tasks []domain.Task
	if err := query.Order("sort_order ASC").Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Mutate loads an owned task, applies fn and saves the result in one
// transaction. Nothing is written if fn fails. The task row stays locked
// until commit so a concurrent delete cannot interleave with the save.
func (r *Repository) Mutate(ctx context.Context, principal, id string, fn func(tx *gorm.DB, t *domain.Task) error) (*domain.Task, error) {
	var updated *domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := storage.Resolve[domain.Task](ctx, storage.ForUpdate(tx), id, principal)
		if err != nil {
			return err
		}
		if err := fn(tx, t); err != nil {
			return err
		}
		if err := tx.Save(t).Error; err != nil {
			// The target list went away after fn resolved it.
			if storage.IsForeignKeyViolation(err) {
				return failure.NotFound("list")
			}
			return fmt.Errorf("failed to update task: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCascade removes an owned task. The store's foreign keys remove its
// time entries, including one inserted while the delete was in flight.
func (r *Repository) DeleteCascade(ctx context.Context, principal, id string) (*domain.Task, error) {
	var deleted *domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := storage.Resolve[domain.Task](ctx, storage.ForUpdate(tx), id, principal)
		if err != nil {
			return err
		}
		if err := tx.Delete(t).Error; err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		deleted = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
