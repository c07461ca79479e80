package db

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"roadmapboard/internal/errors"
	"roadmapboard/models"
	"roadmapboard/ports"
)

// DefaultHistoryLimit is used when Recent is called without a positive limit
const DefaultHistoryLimit = 20

// HistoryRepositoryImpl implements ports.HistoryRepository with sqlx
type HistoryRepositoryImpl struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a load history repository
func NewHistoryRepository(db *sqlx.DB) ports.HistoryRepository {
	return &HistoryRepositoryImpl{db: db}
}

// Record stores a load attempt
func (r *HistoryRepositoryImpl) Record(ctx context.Context, rec *models.LoadRecord) error {
	row := *rec
	row.StartedAt = rec.StartedAt.UTC()
	row.FinishedAt = rec.FinishedAt.UTC()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO load_history (
			id, source, trigger_name, outcome, message,
			sheets_scanned, dept_rows, timeline_rows, departments,
			started_at, finished_at, snapshot
		) VALUES (
			:id, :source, :trigger_name, :outcome, :message,
			:sheets_scanned, :dept_rows, :timeline_rows, :departments,
			:started_at, :finished_at, :snapshot
		)
	`, &row)
	if err != nil {
		return errors.DatabaseError("failed to record load", err)
	}
	return nil
}

// Recent returns the newest records first, without their snapshots
func (r *HistoryRepositoryImpl) Recent(ctx context.Context, limit int) ([]*models.LoadRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	records := []*models.LoadRecord{}
	err := r.db.SelectContext(ctx, &records, r.db.Rebind(`
		SELECT id, source, trigger_name, outcome, message,
		       sheets_scanned, dept_rows, timeline_rows, departments,
		       started_at, finished_at
		FROM load_history
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, errors.DatabaseError("failed to list load history", err)
	}
	return records, nil
}

// Get returns one record with its snapshot
func (r *HistoryRepositoryImpl) Get(ctx context.Context, id string) (*models.LoadRecord, error) {
	var rec models.LoadRecord
	err := r.db.GetContext(ctx, &rec, r.db.Rebind(`
		SELECT id, source, trigger_name, outcome, message,
		       sheets_scanned, dept_rows, timeline_rows, departments,
		       started_at, finished_at, snapshot
		FROM load_history
		WHERE id = ?
	`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("load " + id)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to get load", err)
	}
	return &rec, nil
}
