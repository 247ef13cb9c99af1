package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and configures the durable store.
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Open connects to the configured database. Unique and foreign key violations
// are translated to gorm errors and all timestamps are written in UTC.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DSN))
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres driver requires a DSN")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "" || cfg.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// SQLite allows one writer; a single connection queues transactions
		// instead of failing them with SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "tasks.db"
	}
	// Immediate transactions take the write lock up front, so a
	// read-then-write transaction in another process waits on busy_timeout
	// instead of failing on lock upgrade. SQLite leaves foreign keys off
	// unless each connection asks for them.
	for _, param := range []string{"_busy_timeout=5000", "_txlock=immediate", "_foreign_keys=1"} {
		key := param[:strings.Index(param, "=")]
		if strings.Contains(dsn, key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + param
	}
	return dsn
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err came from a foreign key
// constraint, which happens when the parent row is gone.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ForUpdate locks the rows the query reads until the transaction ends.
// PostgreSQL takes a row lock; SQLite drops the clause because its
// immediate transactions already hold the database write lock.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
