package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roadmapboard/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations. Statements are kept
// portable between sqlite3 and postgres.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createLoadHistoryTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create load_history table", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createLoadHistoryTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS load_history (
			id VARCHAR(36) PRIMARY KEY,
			source TEXT NOT NULL,
			trigger_name VARCHAR(32) NOT NULL,
			outcome VARCHAR(16) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			sheets_scanned INTEGER NOT NULL DEFAULT 0,
			dept_rows INTEGER NOT NULL DEFAULT 0,
			timeline_rows INTEGER NOT NULL DEFAULT 0,
			departments INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			snapshot TEXT NOT NULL DEFAULT ''
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_load_history_started_at ON load_history (started_at DESC)
	`)
	return err
}
