package ports

import (
	"context"

	"roadmapboard/models"
)

// HistoryRepository persists one record per load attempt
type HistoryRepository interface {
	Record(ctx context.Context, rec *models.LoadRecord) error

	// Recent returns the latest records, newest first
	Recent(ctx context.Context, limit int) ([]*models.LoadRecord, error)

	// Get returns a single record including its stored snapshot
	Get(ctx context.Context, id string) (*models.LoadRecord, error)
}
