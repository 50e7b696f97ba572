package store

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// NoopStore never caches. Used when no database path is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) LoadBars(context.Context, string, model.Period) (*model.Series, time.Time, error) {
	return nil, time.Time{}, nil
}
func (NoopStore) SaveBars(context.Context, *model.Series, time.Time) error { return nil }
func (NoopStore) Close() error                                             { return nil }
