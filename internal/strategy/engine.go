// Package strategy turns a stock's pattern events into a signal score,
// recommendation, risk tier and key price levels, and ranks groups of
// signals into buy, hold and sell buckets.
package strategy

import (
	"fmt"
	"strconv"

	"github.com/guregu/null/v6"

	"StockPulse/internal/calculator"
	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// NeutralScore is the signal score of a stock without pattern events.
const NeutralScore = 5.0

// Aggregator applies the signal thresholds.
type Aggregator struct {
	cfg config.Signals
}

// NewAggregator creates an Aggregator.
func NewAggregator(cfg config.Signals) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Score maps the summed event strengths onto [0,10], rounded to cents.
func (a *Aggregator) Score(events []model.PatternEvent) float64 {
	if len(events) == 0 {
		return NeutralScore
	}
	total := 0
	for _, e := range events {
		total += e.Strength
	}
	score := NeutralScore + float64(total)/a.cfg.StrengthScale*5
	return calculator.Round(calculator.Clamp(score, 0, 10), 2)
}

// Recommend maps a score to an action and its rationale.
func (a *Aggregator) Recommend(score float64) (model.Recommendation, string) {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	switch {
	case score >= a.cfg.BuyThreshold:
		return model.Buy, fmt.Sprintf("composite score %s/10, several bullish signals", s)
	case score <= a.cfg.SellThreshold:
		return model.Sell, fmt.Sprintf("composite score %s/10, bearish signals present", s)
	default:
		return model.Hold, fmt.Sprintf("composite score %s/10, wait and see", s)
	}
}

// Risk grades the event list: two or more strongly negative events is very
// high, one is high; otherwise any strongly positive event is low.
func (a *Aggregator) Risk(events []model.PatternEvent) model.RiskLevel {
	var positive, negative int
	for _, e := range events {
		switch {
		case e.Strength < -a.cfg.RiskCutoff:
			negative++
		case e.Strength > a.cfg.RiskCutoff:
			positive++
		}
	}
	switch {
	case negative >= 2:
		return model.RiskVeryHigh
	case negative == 1:
		return model.RiskHigh
	case positive > 0:
		return model.RiskLow
	default:
		return model.RiskMedium
	}
}

// KeyLevels derives the entry zone, target zone and stop-loss. A zero or
// missing price yields the unavailable sentinels. The entry zone runs from
// the lowest support to the price, so it is inverted when every support
// sits above the price.
func (a *Aggregator) KeyLevels(price null.Float, support, resistance []float64) (entry, target model.PriceZone, stop null.Float) {
	if !price.Valid || price.Float64 == 0 {
		return model.UnavailableZone, model.UnavailableZone, model.UnavailablePrice
	}
	p := price.Float64

	if len(support) > 0 {
		low := minOf(support)
		entry = model.NewZone(low, p)
		stop = null.FloatFrom(low * a.cfg.SupportStop)
	} else {
		entry = model.NewZone(p*a.cfg.EntryDiscount, p)
		stop = null.FloatFrom(p * a.cfg.PriceStop)
	}

	if len(resistance) > 0 {
		target = model.NewZone(p, maxOf(resistance))
	} else {
		target = model.NewZone(p, p*a.cfg.TargetPremium)
	}
	return entry, target, stop
}

// Evaluate builds the signal record of a scan.
func (a *Aggregator) Evaluate(scan *model.ScanResult) model.StockSignal {
	score := a.Score(scan.Patterns)
	rec, rationale := a.Recommend(score)
	entry, target, stop := a.KeyLevels(scan.Price, scan.Support, scan.Resistance)

	return model.StockSignal{
		Symbol:         scan.Symbol,
		Name:           scan.Name,
		Price:          scan.Price,
		ChangePct:      scan.ChangePct,
		Patterns:       scan.Patterns,
		Score:          score,
		Recommendation: rec,
		Risk:           a.Risk(scan.Patterns),
		Rationale:      rationale,
		EntryZone:      entry,
		TargetZone:     target,
		StopLoss:       stop,
	}
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
