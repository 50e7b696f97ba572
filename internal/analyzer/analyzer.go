// Package analyzer runs the scoring pipeline against a data source: single
// stock scans and signals, group reports, pattern scanners and the market
// snapshot. Batch operations are sequential and drop failing symbols.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"StockPulse/internal/calculator"
	"StockPulse/internal/config"
	"StockPulse/internal/model"
	"StockPulse/internal/pattern"
	"StockPulse/internal/scoring"
	"StockPulse/internal/strategy"
)

// DataSource is the market-data collaborator. collector.Collector and every
// collector.Fetcher satisfy it.
type DataSource interface {
	FetchCandles(ctx context.Context, symbol string, period model.Period, count int) (*model.Series, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
	FetchMarketQuotes(ctx context.Context) ([]model.Quote, error)
	FetchIndices(ctx context.Context) ([]model.IndexQuote, error)
	FetchSectors(ctx context.Context) ([]model.Sector, error)
}

// Analyzer wires the indicator engine, detector, scoring engine and signal
// aggregator to a DataSource.
type Analyzer struct {
	cfg      config.Analysis
	src      DataSource
	detector *pattern.Detector
	scorer   *scoring.Engine
	signals  *strategy.Aggregator
	log      *zap.Logger
}

// New creates an Analyzer.
func New(cfg config.Analysis, src DataSource, log *zap.Logger) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		src:      src,
		detector: pattern.NewDetector(cfg.Indicators, cfg.Patterns),
		scorer:   scoring.NewEngine(cfg.Indicators, cfg.Scoring),
		signals:  strategy.NewAggregator(cfg.Signals),
		log:      log,
	}
}

func (a *Analyzer) candles(ctx context.Context, symbol string) (*model.Series, error) {
	s, err := a.src.FetchCandles(ctx, symbol, model.Period(a.cfg.Scan.Period), a.cfg.Scan.Count)
	if err != nil {
		return nil, err
	}
	if s.Empty() {
		return nil, fmt.Errorf("no data available")
	}
	return s, nil
}

func (a *Analyzer) detect(s *model.Series) []model.PatternEvent {
	return a.detector.Detect(calculator.Compute(s, a.cfg.Indicators))
}

// ScanStock runs the detector over a symbol's candles. Failures come back
// as *model.ScanError.
func (a *Analyzer) ScanStock(ctx context.Context, symbol string) (*model.ScanResult, error) {
	s, err := a.candles(ctx, symbol)
	if err != nil {
		return nil, &model.ScanError{Symbol: symbol, Message: err.Error()}
	}
	q, err := a.src.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, &model.ScanError{Symbol: symbol, Message: err.Error()}
	}

	levels := a.detector.SupportResistance(s)
	return &model.ScanResult{
		Symbol:     symbol,
		Name:       q.Name,
		Price:      q.Price,
		ChangePct:  q.ChangePct,
		Patterns:   a.detect(s),
		Support:    levels.Support,
		Resistance: levels.Resistance,
	}, nil
}

// ScoreStock returns the signal record of one symbol.
func (a *Analyzer) ScoreStock(ctx context.Context, symbol string) (*model.StockSignal, error) {
	scan, err := a.ScanStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	sig := a.signals.Evaluate(scan)
	return &sig, nil
}

// ScoreGroup scores every symbol and buckets the survivors.
func (a *Analyzer) ScoreGroup(ctx context.Context, symbols []string) model.GroupResult {
	out := make([]model.StockSignal, 0, len(symbols))
	for _, sym := range symbols {
		sig, err := a.ScoreStock(ctx, sym)
		if err != nil {
			a.log.Warn("score stock failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		out = append(out, *sig)
	}
	return a.signals.Partition(out)
}

// Evaluate computes the composite technical and fundamental score and
// grades the valuation, against peers when any are given. Missing candles
// or fundamentals fall back to the neutral score.
func (a *Analyzer) Evaluate(ctx context.Context, symbol string, peers ...string) model.CompositeScore {
	var frame *model.Frame
	if s, err := a.candles(ctx, symbol); err != nil {
		a.log.Warn("fetch candles failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		frame = calculator.Compute(s, a.cfg.Indicators)
	}
	fund := a.fundamentals(ctx, symbol)
	c := a.scorer.Composite(symbol, frame, fund)
	if fund != nil {
		peerFunds := make([]*model.Fundamentals, 0, len(peers))
		for _, p := range peers {
			if f := a.fundamentals(ctx, p); f != nil {
				peerFunds = append(peerFunds, f)
			}
		}
		c.Valuation = scoring.Valuation(fund, peerFunds)
	}
	return c
}

func (a *Analyzer) fundamentals(ctx context.Context, symbol string) *model.Fundamentals {
	fund, err := a.src.FetchFundamentals(ctx, symbol)
	if err != nil {
		a.log.Debug("fetch fundamentals failed", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}
	return fund
}

// ScanFilter selects the events a scanner reports.
type ScanFilter func(model.PatternEvent) bool

var (
	// GoldenCrossFilter keeps bullish crosses of any kind.
	GoldenCrossFilter ScanFilter = func(e model.PatternEvent) bool {
		return strings.Contains(string(e.Kind), "cross") && e.Strength > 0
	}
	// OversoldFilter keeps RSI oversold events.
	OversoldFilter ScanFilter = func(e model.PatternEvent) bool {
		return e.Kind == model.KindRSIOversold
	}
	// BreakoutFilter keeps bullish breakouts.
	BreakoutFilter ScanFilter = func(e model.PatternEvent) bool {
		return strings.Contains(string(e.Kind), "breakout") && e.Strength > 0
	}
)

// Scan returns the symbols with at least one event passing keep.
func (a *Analyzer) Scan(ctx context.Context, symbols []string, keep ScanFilter) []model.ScanHit {
	var hits []model.ScanHit
	for _, sym := range symbols {
		s, err := a.candles(ctx, sym)
		if err != nil {
			a.log.Debug("scan skipped", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		var matched []model.PatternEvent
		for _, e := range a.detect(s) {
			if keep(e) {
				matched = append(matched, e)
			}
		}
		if len(matched) == 0 {
			continue
		}
		q, err := a.src.FetchQuote(ctx, sym)
		if err != nil {
			a.log.Debug("scan skipped", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		hits = append(hits, model.ScanHit{
			Symbol:    sym,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Events:    matched,
		})
	}
	return hits
}

// FindGoldenCross scans symbols for bullish moving-average and MACD crosses.
func (a *Analyzer) FindGoldenCross(ctx context.Context, symbols []string) []model.ScanHit {
	return a.Scan(ctx, symbols, GoldenCrossFilter)
}

// FindOversold scans symbols for RSI oversold readings.
func (a *Analyzer) FindOversold(ctx context.Context, symbols []string) []model.ScanHit {
	return a.Scan(ctx, symbols, OversoldFilter)
}

// FindBreakout scans symbols for bullish breakouts.
func (a *Analyzer) FindBreakout(ctx context.Context, symbols []string) []model.ScanHit {
	return a.Scan(ctx, symbols, BreakoutFilter)
}
