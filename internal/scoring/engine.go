// Package scoring maps indicator state and fundamental ratios to bounded
// [0,10] scores and combines them with configurable weights.
package scoring

import (
	"StockPulse/internal/calculator"
	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// Neutral is the fallback score for missing or insufficient data.
func Neutral() model.ScoreResult {
	return model.ScoreResult{Overall: baseScore, Components: map[string]float64{}}
}

var (
	technicalDims   = []string{model.DimTrend, model.DimMomentum, model.DimVolume}
	fundamentalDims = []string{model.DimValuation, model.DimGrowth, model.DimQuality}
)

// Engine computes technical, fundamental and overall scores.
type Engine struct {
	ind config.Indicators
	cfg config.Scoring
}

// NewEngine creates a scoring Engine.
func NewEngine(ind config.Indicators, cfg config.Scoring) *Engine {
	return &Engine{ind: ind, cfg: cfg}
}

// Technical scores trend, momentum and volume. Frames with fewer than
// MinBars rows score Neutral.
func (e *Engine) Technical(f *model.Frame) model.ScoreResult {
	if f == nil || f.Len() < e.cfg.MinBars || f.Len() < 2 {
		return Neutral()
	}
	components := map[string]float64{
		model.DimTrend:    e.scoreTrend(f),
		model.DimMomentum: e.scoreMomentum(f),
		model.DimVolume:   e.scoreVolume(f),
	}
	return weigh(components, technicalDims, e.cfg.Technical)
}

// Fundamental scores valuation, growth and quality. A nil input scores
// Neutral.
func (e *Engine) Fundamental(fund *model.Fundamentals) model.ScoreResult {
	if fund == nil {
		return Neutral()
	}
	components := map[string]float64{
		model.DimValuation: scoreValuation(fund),
		model.DimGrowth:    scoreGrowth(fund),
		model.DimQuality:   scoreQuality(fund),
	}
	return weigh(components, fundamentalDims, e.cfg.Fundamental)
}

// Overall combines a technical and a fundamental score.
func (e *Engine) Overall(technical, fundamental float64) float64 {
	w := e.cfg.Overall
	return clampScore(calculator.Round(technical*w["technical"]+fundamental*w["fundamental"], 2))
}

// Composite scores one symbol from its frame and fundamentals.
func (e *Engine) Composite(symbol string, f *model.Frame, fund *model.Fundamentals) model.CompositeScore {
	tech := e.Technical(f)
	fundamental := e.Fundamental(fund)
	return model.CompositeScore{
		Symbol:      symbol,
		Overall:     e.Overall(tech.Overall, fundamental.Overall),
		Technical:   tech,
		Fundamental: fundamental,
	}
}

// weigh folds components in dims order so the sum is reproducible.
func weigh(components map[string]float64, dims []string, weights config.Weights) model.ScoreResult {
	total := 0.0
	for _, dim := range dims {
		v := components[dim]
		total += v * weights[dim]
		components[dim] = calculator.Round(v, 2)
	}
	return model.ScoreResult{
		Overall:    clampScore(calculator.Round(total, 2)),
		Components: components,
	}
}
