package ports

import (
	"context"

	"roadmapboard/domain/cell"
)

// WorkbookFetcher retrieves the raw bytes of a workbook
type WorkbookFetcher interface {
	// Fetch makes exactly one attempt; there are no retries.
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// WorkbookParser turns workbook bytes into sheet matrices in file order
type WorkbookParser interface {
	Parse(data []byte, name string) ([]cell.Sheet, error)
}
