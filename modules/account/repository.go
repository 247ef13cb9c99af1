package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/storage"
	"gorm.io/gorm"
)

// Repository persists users and lists.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUserWithInbox inserts the user and its default list in one
// transaction. If either insert fails neither row is kept.
func (r *Repository) CreateUserWithInbox(ctx context.Context, u *user.User, inbox *user.List) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if storage.IsUniqueViolation(err) {
				return failure.Conflict("email %s is already registered", u.Email)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		if err := tx.Create(inbox).Error; err != nil {
			return fmt.Errorf("failed to create default list: %w", err)
		}
		return nil
	})
}

// FindUserByID returns the user with the given id.
func (r *Repository) FindUserByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, failure.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// EmailExists reports whether an account already uses email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// CreateList inserts a non-default list. A nil sortOrder appends the list
// after the user's existing ones.
func (r *Repository) CreateList(ctx context.Context, l *user.List, sortOrder *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sortOrder != nil {
			l.SortOrder = *sortOrder
		} else {
			var maxOrder int
			if err := tx.Model(&user.List{}).
				Where("user_id = ?", l.UserID).
				Select("COALESCE(MAX(sort_order), 0)").
				Scan(&maxOrder).Error; err != nil {
				return fmt.Errorf("failed to compute sort order: %w", err)
			}
			l.SortOrder = maxOrder + 1
		}
		if err := tx.Create(l).Error; err != nil {
			return fmt.Errorf("failed to create list: %w", err)
		}
		return nil
	})
}

// ListsByUser returns the user's lists ordered by sort order, oldest first.
func (r *Repository) ListsByUser(ctx context.Context, userID string) ([]user.List, error) {
	var lists []user.List
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// DeleteListCascade deletes an owned, non-default list. The store's
// foreign keys remove its tasks and their time entries in the same
// statement. It returns the ids of the deleted tasks.
func (r *Repository) DeleteListCascade(ctx context.Context, listID, principal string) ([]string, error) {
	var taskIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The row lock makes task inserts into this list wait, so the
		// collected ids are exactly the tasks the cascade removes.
		list, err := storage.Resolve[user.List](ctx, storage.ForUpdate(tx), listID, principal)
		if err != nil {
			return err
		}
		if list.IsDefault {
			return failure.Protected("the default list cannot be deleted")
		}

		if err := tx.Model(&task.Task{}).
			Where("list_id = ? AND user_id = ?", list.ID, principal).
			Pluck("id", &taskIDs).Error; err != nil {
			return fmt.Errorf("failed to collect tasks: %w", err)
		}

		if err := tx.Delete(list).Error; err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return taskIDs, nil
}
