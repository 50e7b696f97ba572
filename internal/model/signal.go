package model

import (
	"fmt"

	"github.com/guregu/null/v6"
)

// PatternKind identifies the rule that produced a PatternEvent.
type PatternKind string

const (
	KindGoldenCross     PatternKind = "golden_cross"
	KindDeathCross      PatternKind = "death_cross"
	KindMACDGoldenCross PatternKind = "macd_golden_cross"
	KindMACDDeathCross  PatternKind = "macd_death_cross"
	KindRSIOversold     PatternKind = "rsi_oversold"
	KindRSIOverbought   PatternKind = "rsi_overbought"
	KindVolumeBreakout  PatternKind = "volume_breakout"
	KindBollUpperBreak  PatternKind = "bollinger_breakout_upper"
	KindBollLowerBreak  PatternKind = "bollinger_breakout_lower"
)

// CandleKind builds the kind of a candlestick event, e.g. "bullish_hammer".
func CandleKind(bullish bool, name string) PatternKind {
	if bullish {
		return PatternKind("bullish_" + name)
	}
	return PatternKind("bearish_" + name)
}

// PatternEvent is a discrete event found on the latest bars of a frame.
// Strength lies in [-10, 10]; positive is bullish.
type PatternEvent struct {
	Kind      PatternKind
	Label     string
	Strength  int
	Rationale string
}

// Score dimensions.
const (
	DimTrend     = "trend"
	DimMomentum  = "momentum"
	DimVolume    = "volume"
	DimValuation = "valuation"
	DimGrowth    = "growth"
	DimQuality   = "quality"
)

// ScoreResult is a bounded [0,10] score with its per-dimension components.
// Components is empty when the score fell back to the neutral default.
type ScoreResult struct {
	Overall    float64
	Components map[string]float64
}

// CompositeScore combines the technical and fundamental scores of a symbol.
type CompositeScore struct {
	Symbol      string
	Overall     float64
	Technical   ScoreResult
	Fundamental ScoreResult
	Valuation   Valuation
}

// ValuationLevel grades a price/earnings ratio.
type ValuationLevel string

const (
	Undervalued  ValuationLevel = "undervalued"
	FairlyValued ValuationLevel = "neutral"
	Overvalued   ValuationLevel = "overvalued"
)

// Valuation grades a stock's PE on its own (Level) and against the mean PE
// of its peers (Relative). Level is empty when no fundamentals were
// available, Relative when no usable peer PE was.
type Valuation struct {
	Level      ValuationLevel
	PE         null.Float
	PB         null.Float
	IndustryPE null.Float
	Peers      int
	// Percentile is the share of the peer group, the stock included, with a
	// lower PE, 0-100.
	Percentile null.Float
	Relative   ValuationLevel
	Reasons    []string
}

// Recommendation is the action derived from a signal score.
type Recommendation string

const (
	Buy  Recommendation = "buy"
	Hold Recommendation = "hold"
	Sell Recommendation = "sell"
)

// RiskLevel is the risk tier derived from the pattern events.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// PriceZone is a [Low, High] price band. The zero value is UnavailableZone.
// Low is not guaranteed to be at or below High: an entry zone built from a
// support level above the current price comes out inverted, and renderers
// print it as is.
type PriceZone struct {
	Low   float64
	High  float64
	Valid bool
}

// UnavailableZone marks a zone that could not be derived (price was zero).
var UnavailableZone = PriceZone{}

// UnavailablePrice marks a stop-loss that could not be derived.
var UnavailablePrice = null.Float{}

// NewZone returns a valid zone.
func NewZone(low, high float64) PriceZone {
	return PriceZone{Low: low, High: high, Valid: true}
}

func (z PriceZone) String() string {
	if !z.Valid {
		return "-"
	}
	return fmt.Sprintf("%.2f-%.2f", z.Low, z.High)
}

// ScanResult is the raw per-symbol scan: quote fields, events and levels.
type ScanResult struct {
	Symbol     string
	Name       string
	Price      null.Float
	ChangePct  null.Float
	Patterns   []PatternEvent
	Support    []float64
	Resistance []float64
}

// StockSignal is the scored, immutable result of one scan.
type StockSignal struct {
	Symbol         string
	Name           string
	Price          null.Float
	ChangePct      null.Float
	Patterns       []PatternEvent
	Score          float64
	Recommendation Recommendation
	Risk           RiskLevel
	Rationale      string
	EntryZone      PriceZone
	TargetZone     PriceZone
	StopLoss       null.Float
}

// ScanError is the error record of a single-stock scan.
type ScanError struct {
	Symbol  string
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Message)
}

// GroupResult partitions the signals of a symbol list. Failed symbols are
// absent from every bucket.
type GroupResult struct {
	Buy     []StockSignal
	Hold    []StockSignal
	Sell    []StockSignal
	Summary string
}

// Total returns the number of signals across all buckets.
func (g *GroupResult) Total() int {
	return len(g.Buy) + len(g.Hold) + len(g.Sell)
}

// All returns buy, hold and sell signals in that order.
func (g *GroupResult) All() []StockSignal {
	out := make([]StockSignal, 0, g.Total())
	out = append(out, g.Buy...)
	out = append(out, g.Hold...)
	return append(out, g.Sell...)
}
