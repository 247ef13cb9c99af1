package timetracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/task-tracker/domain/failure"
	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/modules/storage"
	"gorm.io/gorm"
)

// EntryFilter narrows an entry listing.
type EntryFilter struct {
	TaskID     string
	OnlyActive bool
}

// Repository persists time entries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Start inserts e as the principal's running timer. The ownership check,
// the running-timer check and the insert share one transaction, and the
// store's one-active-entry-per-user index rejects any insert that slips
// past the check.
func (r *Repository) Start(ctx context.Context, e *timeentry.TimeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := storage.Resolve[task.Task](ctx, tx, e.TaskID, e.UserID); err != nil {
			return err
		}

		var running int64
		if err := tx.Model(&timeentry.TimeEntry{}).
			Where("user_id = ? AND end_time IS NULL", e.UserID).
			Count(&running).Error; err != nil {
			return fmt.Errorf("failed to check running timer: %w", err)
		}
		if running > 0 {
			return failure.TimerRunning()
		}

		return createEntry(tx, e)
	})
}

func createEntry(tx *gorm.DB, e *timeentry.TimeEntry) error {
	if err := tx.Create(e).Error; err != nil {
		if storage.IsUniqueViolation(err) {
			return failure.TimerRunning()
		}
		// The task was deleted after the ownership check.
		if storage.IsForeignKeyViolation(err) {
			return failure.NotFound("task")
		}
		return fmt.Errorf("failed to create time entry: %w", err)
	}
	return nil
}

// Stop closes the principal's running entry with the given id. An unknown,
// foreign or already stopped entry is not found.
func (r *Repository) Stop(ctx context.Context, principal, entryID string, now time.Time) (*timeentry.TimeEntry, error) {
	var stopped *timeentry.TimeEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e timeentry.TimeEntry
		err := tx.Where("id = ? AND user_id = ? AND end_time IS NULL", entryID, principal).Take(&e).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure.NotFound("active time entry")
		}
		if err != nil {
			return fmt.Errorf("failed to find time entry: %w", err)
		}

		e.Stop(now)
		e.UpdatedAt = now

		// Conditional on end_time so a concurrent stop cannot close it twice.
		res := tx.Model(&timeentry.TimeEntry{}).
			Where("id = ? AND end_time IS NULL", e.ID).
			Updates(map[string]any{
				"end_time":         e.EndTime,
				"duration_seconds": e.DurationSeconds,
				"updated_at":       e.UpdatedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to stop time entry: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return failure.NotFound("active time entry")
		}

		stopped = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stopped, nil
}

// Totals sums the stored durations of all entries on a task. Running
// entries count towards the entry count but add nothing to the total.
func (r *Repository) Totals(ctx context.Context, principal, taskID string) (totalSeconds, entryCount int64, err error) {
	if _, err := storage.Resolve[task.Task](ctx, r.db, taskID, principal); err != nil {
		return 0, 0, err
	}

	var row struct {
		TotalSeconds int64
		EntryCount   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&timeentry.TimeEntry{}).
		Select("CAST(COALESCE(SUM(duration_seconds), 0) AS BIGINT) AS total_seconds, COUNT(*) AS entry_count").
		Where("task_id = ? AND user_id = ?", taskID, principal).
		Scan(&row).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to sum time entries: %w", err)
	}
	return row.TotalSeconds, row.EntryCount, nil
}

// OwnsTask reports NotFound unless the task belongs to principal.
func (r *Repository) OwnsTask(ctx context.Context, principal, taskID string) error {
	_, err := storage.Resolve[task.Task](ctx, r.db, taskID, principal)
	return err
}

// List returns the principal's entries, most recent start first.
func (r *Repository) List(ctx context.Context, principal string, filter EntryFilter) ([]timeentry.TimeEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", principal)
	if filter.TaskID != "" {
		query = query.Where("task_id = ?", filter.TaskID)
	}
	if filter.OnlyActive {
		query = query.Where("end_time IS NULL")
	}

	var entries []timeentry.TimeEntry
	if err := query.Order("start_time DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, nil
}

// Active returns the principal's running entry, or nil if there is none.
func (r *Repository) Active(ctx context.Context, principal string) (*timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := r.db.WithContext(ctx).Where("user_id = ? AND end_time IS NULL", principal).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find running timer: %w", err)
	}
	return &e, nil
}

// UpdateDescription replaces the description of an owned entry.
func (r *Repository) UpdateDescription(ctx context.Context, principal, entryID, description string) (*timeentry.TimeEntry, error) {
	var updated *timeentry.TimeEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := storage.Resolve[timeentry.TimeEntry](ctx, tx, entryID, principal)
		if err != nil {
			return err
		}
		e.Description = description
		if err := tx.Model(e).Update("description", description).Error; err != nil {
			return fmt.Errorf("failed to update time entry: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
