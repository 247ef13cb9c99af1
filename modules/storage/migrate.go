package storage

import (
	"fmt"

	"github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/timeentry"
	"github.com/example/task-tracker/domain/user"
	"gorm.io/gorm"
)

// partialIndexes hold the invariants GORM tags cannot express.
// Both SQLite and PostgreSQL accept this syntax.
var partialIndexes = []string{
	// At most one default list per user.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_lists_one_default_per_user ON lists (user_id) WHERE is_default = true`,
	// At most one running timer per user.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_time_entries_one_active_per_user ON time_entries (user_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks (due_date) WHERE due_date IS NOT NULL`,
}

// Migrate creates or updates the schema. It is safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.User{}, &user.List{}, &task.Task{}, &timeentry.TimeEntry{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
