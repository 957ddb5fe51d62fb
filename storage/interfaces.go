package storage

import (
	"context"

	"bd-election-analysis/models"
)

// RawStorage defines the interface for storing raw scraped candidate rows
type RawStorage interface {
	WriteRawRecords(path string, records []*models.RawCandidateRecord) error
}

// ResultStorage defines the interface for persisting the derived datasets of a run
type ResultStorage interface {
	SaveSeats(ctx context.Context, runID string, table *models.SeatTable) error
	SaveImpact(ctx context.Context, runID string, table *models.ImpactTable) error
	Close() error
}

var (
	_ RawStorage    = (*CSVWriter)(nil)
	_ ResultStorage = (*SQLStore)(nil)
)
