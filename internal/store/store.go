// Package store caches fetched candle series so repeated scans within the
// candle TTL do not hit the data source again.
package store

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// BarStore persists candle series keyed by symbol and period.
type BarStore interface {
	// LoadBars returns the cached series and when it was fetched. A miss
	// returns a nil series and no error.
	LoadBars(ctx context.Context, symbol string, period model.Period) (*model.Series, time.Time, error)
	// SaveBars replaces the cached series for its symbol and period.
	SaveBars(ctx context.Context, s *model.Series, fetchedAt time.Time) error
	Close() error
}
