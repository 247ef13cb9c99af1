package storage

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// Module owns the database connection shared by the engine modules.
// It must be registered before any module that calls DB.
type Module struct {
	cfg    Config
	db     *gorm.DB
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new storage module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	return &Module{cfg: cfg, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// DB returns the open connection. It is nil before Start.
func (m *Module) DB() *gorm.DB {
	return m.db
}

// Start opens the database and applies migrations.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Connecting to database", "driver", m.cfg.Driver)

	db, err := Open(m.cfg)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	m.db = db

	m.logger.Info("Storage module started")
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Database connection closed")
	return nil
}

// Health pings the database.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.cfg.Driver,
		},
	}
}
