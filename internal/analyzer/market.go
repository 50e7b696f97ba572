package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/collector"
	"StockPulse/internal/model"
	"StockPulse/internal/summary"
)

// MarketStats aggregates the market-wide quote snapshot.
func (a *Analyzer) MarketStats(ctx context.Context) (model.MarketStats, error) {
	quotes, err := a.src.FetchMarketQuotes(ctx)
	if err != nil {
		return model.MarketStats{}, fmt.Errorf("market quotes: %w", err)
	}
	return summary.MarketStats(quotes, a.cfg.Market.LimitMovePct), nil
}

// Sentiment reads market sentiment from the quote snapshot.
func (a *Analyzer) Sentiment(ctx context.Context, at time.Time) (*model.Sentiment, error) {
	st, err := a.MarketStats(ctx)
	if err != nil {
		return nil, err
	}
	s := summary.Sentiment(st, a.cfg.Market, at)
	return &s, nil
}

// MarketSnapshot assembles indices, statistics and sentiment. Either half
// may be missing; both missing is an error.
func (a *Analyzer) MarketSnapshot(ctx context.Context, at time.Time) (*model.MarketSnapshot, error) {
	indices, idxErr := a.src.FetchIndices(ctx)
	if idxErr != nil {
		a.log.Warn("fetch indices failed", zap.Error(idxErr))
	}
	st, statsErr := a.MarketStats(ctx)
	if statsErr != nil {
		a.log.Warn("market statistics unavailable", zap.Error(statsErr))
	}
	if idxErr != nil && statsErr != nil {
		return nil, fmt.Errorf("market snapshot: %w", statsErr)
	}
	snap := summary.Snapshot(indices, st, a.cfg.Market, at)
	a.addSectors(ctx, &snap)
	return &snap, nil
}

// addSectors fills the hot-sector and fund-flow tables. Sources without
// sector data leave both empty.
func (a *Analyzer) addSectors(ctx context.Context, snap *model.MarketSnapshot) {
	sectors, err := a.src.FetchSectors(ctx)
	switch {
	case errors.Is(err, collector.ErrUnsupported):
		a.log.Debug("sectors not offered by source", zap.Error(err))
		return
	case err != nil:
		a.log.Warn("fetch sectors failed", zap.Error(err))
		return
	}
	m := a.cfg.Market
	snap.HotSectors = summary.HotSectors(sectors, m.HotThreshold, m.HotSectorsTopN)
	snap.FlowRanking = summary.FlowRanking(sectors, m.FlowTopN, m.StrongFlow)
}
