// Package store persists raw activity records. Computed metrics are never
// stored; every dashboard render recomputes them from the record set.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/salesdash/internal/model"
)

// RecordFilter specifies criteria for listing activity records.
//
// Date bounds apply to scheduled_at, and records without a scheduled date
// always pass the date filter (fail-open, same policy as Period.Contains).
type RecordFilter struct {
	From   *time.Time
	To     *time.Time
	Source string
	Limit  int
	Offset int
}

// Store defines the persistence interface for raw activity records.
type Store interface {
	SaveRecords(ctx context.Context, records []model.ActivityRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.ActivityRecord, error)
	DeleteSource(ctx context.Context, source string) (int64, error)
	CountRecords(ctx context.Context) (int64, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite", "":
		return NewSQLite(databaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
