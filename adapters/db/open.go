package db

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"roadmapboard/internal/errors"
	"roadmapboard/internal/migration"
)

// Driver returns the sql driver name and data source for a DATABASE_URL.
// postgres:// and postgresql:// select lib/pq; sqlite:// prefixes are
// stripped; anything else is treated as a sqlite3 path.
func Driver(databaseURL string) (driver, dsn string) {
	lower := strings.ToLower(databaseURL)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", databaseURL
	case strings.HasPrefix(lower, "sqlite://"):
		return "sqlite3", databaseURL[len("sqlite://"):]
	case strings.HasPrefix(lower, "sqlite3://"):
		return "sqlite3", databaseURL[len("sqlite3://"):]
	}
	return "sqlite3", databaseURL
}

// Open connects to the database and runs the migrations
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	driver, dsn := Driver(databaseURL)
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if driver == "sqlite3" {
		// one writer; keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}
