package scoring

import (
	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// Every sub-score starts here and is nudged by the deltas below.
const baseScore = 5.0

// Trend deltas.
const (
	maAlignedBonus   = 1.0
	aboveAnchorBonus = 0.5
	risingBonus      = 0.5
)

// Momentum deltas.
const (
	rsiNeutralBonus    = 1.0
	rsiLeaningBonus    = 0.5
	rsiOversoldBonus   = 1.0
	rsiOverboughtMalus = -1.0
	histPositiveBonus  = 0.5
	histNegativeMalus  = -0.5
)

// Volume deltas.
const (
	priceUpVolumeUp     = 1.5
	priceDownVolumeDown = -0.5
	priceUpVolumeDown   = 0.5
	priceDownVolumeUp   = -1.0
)

// Valuation deltas.
const (
	cheapPEBonus     = 2.0
	fairPEBonus      = 1.0
	expensivePEMalus = -1.0
	cheapPBBonus     = 1.0
	fairPBBonus      = 0.5
	expensivePBMalus = -1.0
)

func clampScore(v float64) float64 { return calculator.Clamp(v, 0, 10) }

// scoreTrend rewards an aligned fast MA pair, a close above the anchor MA
// and a rising close over the trailing lookback.
func (e *Engine) scoreTrend(f *model.Frame) float64 {
	score := baseScore
	periods := e.ind.SortedMAPeriods()
	if len(periods) >= 2 {
		fast := f.At(model.MAColumn(periods[0]), 0)
		next := f.At(model.MAColumn(periods[1]), 0)
		if fast.Valid && next.Valid && fast.Float64 > next.Float64 {
			score += maAlignedBonus
		}
	}

	latest, _ := f.Series.Last(0)
	anchor := f.At(model.MAColumn(e.cfg.TrendAnchorPeriod), 0)
	if latest.Close.Valid && anchor.Valid && latest.Close.Float64 > anchor.Float64 {
		score += aboveAnchorBonus
	}

	recent := f.Series.Tail(e.cfg.TrendLookback)
	if len(recent) >= 2 {
		start, end := recent[0].Close, recent[len(recent)-1].Close
		if start.Valid && end.Valid && end.Float64 > start.Float64 {
			score += risingBonus
		}
	}
	return clampScore(score)
}

// scoreMomentum reads the latest RSI band and the MACD histogram sign.
func (e *Engine) scoreMomentum(f *model.Frame) float64 {
	score := baseScore
	if rsi := f.At(model.ColRSI, 0); rsi.Valid {
		r := rsi.Float64
		switch {
		case r >= 40 && r <= 60:
			score += rsiNeutralBonus
		case r >= 30 && r < 40, r > 60 && r <= 70:
			score += rsiLeaningBonus
		case r < 30:
			score += rsiOversoldBonus
		case r > 70:
			score += rsiOverboughtMalus
		}
	}
	if hist := f.At(model.ColMACDHist, 0); hist.Valid {
		if hist.Float64 > 0 {
			score += histPositiveBonus
		} else {
			score += histNegativeMalus
		}
	}
	return clampScore(score)
}

// scoreVolume compares the sign of the latest price change with the sign
// of the latest volume change.
func (e *Engine) scoreVolume(f *model.Frame) float64 {
	score := baseScore
	latest, ok1 := f.Series.Last(0)
	prev, ok2 := f.Series.Last(1)
	if !ok1 || !ok2 ||
		!latest.Close.Valid || !prev.Close.Valid || prev.Close.Float64 == 0 ||
		!latest.Volume.Valid || !prev.Volume.Valid {
		return score
	}

	priceChange := (latest.Close.Float64 - prev.Close.Float64) / prev.Close.Float64
	volumeChange := 0.0
	if prev.Volume.Float64 > 0 {
		volumeChange = (latest.Volume.Float64 - prev.Volume.Float64) / prev.Volume.Float64
	}

	switch {
	case priceChange > 0 && volumeChange > 0:
		score += priceUpVolumeUp
	case priceChange < 0 && volumeChange < 0:
		score += priceDownVolumeDown
	case priceChange > 0 && volumeChange < 0:
		score += priceUpVolumeDown
	case priceChange < 0 && volumeChange > 0:
		score += priceDownVolumeUp
	}
	return clampScore(score)
}

// scoreValuation rewards low price/earnings and price/book ratios.
func scoreValuation(fund *model.Fundamentals) float64 {
	score := baseScore
	if pe := fund.PE; pe.Valid {
		switch {
		case pe.Float64 < 15:
			score += cheapPEBonus
		case pe.Float64 < 30:
			score += fairPEBonus
		case pe.Float64 > 50:
			score += expensivePEMalus
		}
	}
	if pb := fund.PB; pb.Valid {
		switch {
		case pb.Float64 < 1.5:
			score += cheapPBBonus
		case pb.Float64 < 3:
			score += fairPBBonus
		case pb.Float64 > 5:
			score += expensivePBMalus
		}
	}
	return clampScore(score)
}

// scoreGrowth and scoreQuality are neutral until statement-level
// fundamentals are sourced.
func scoreGrowth(*model.Fundamentals) float64  { return baseScore }
func scoreQuality(*model.Fundamentals) float64 { return baseScore }
