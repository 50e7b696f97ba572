package summary

import (
	"math"
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/calculator"
	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// MarketStats aggregates a market-wide quote snapshot. Quotes without a
// change reading count toward the total only.
func MarketStats(quotes []model.Quote, limitPct float64) model.MarketStats {
	st := model.MarketStats{TotalCount: len(quotes)}
	for _, q := range quotes {
		if q.Turnover.Valid {
			st.TotalTurnover += q.Turnover.Float64
		}
		if !q.ChangePct.Valid {
			continue
		}
		chg := q.ChangePct.Float64
		switch {
		case chg > 0:
			st.UpCount++
		case chg < 0:
			st.DownCount++
		default:
			st.FlatCount++
		}
		if chg >= limitPct {
			st.LimitUpCount++
		}
		if chg <= -limitPct {
			st.LimitDownCount++
		}
	}
	return st
}

// Sentiment scores market mood on a 0-5 scale from breadth, turnover and
// the net limit-move share.
func Sentiment(st model.MarketStats, cfg config.Market, at time.Time) model.Sentiment {
	breadth, breadthScore := breadthScore(st)
	volume, volumeScore := volumeScore(st, cfg.NormalTurnover)
	limit, limitScore := limitScore(st)

	w := cfg.SentimentWeights
	overall := calculator.Round(
		breadthScore*w["breadth"]+volumeScore*w["volume"]+limitScore*w["limit_up"], 2)
	level, status := sentimentLevel(overall, cfg)

	return model.Sentiment{
		BreadthRatio: breadth,
		BreadthScore: breadthScore,
		VolumeRatio:  volume,
		VolumeScore:  volumeScore,
		LimitUpRatio: limit,
		LimitUpScore: limitScore,
		Overall:      overall,
		Level:        level,
		Status:       status,
		Timestamp:    at,
	}
}

func breadthScore(st model.MarketStats) (ratio, score float64) {
	if st.TotalCount == 0 {
		return 1.0, 2.5
	}
	ratio = 2.0
	if st.DownCount > 0 {
		ratio = float64(st.UpCount) / float64(st.DownCount)
	}
	switch {
	case ratio <= 0.5:
		score = 1.0
	case ratio <= 1.0:
		score = 1.0 + (ratio-0.5)*3
	case ratio <= 2.0:
		score = 2.5 + (ratio-1.0)*1.5
	default:
		score = math.Min(4.0+(ratio-2.0)*0.5, 5.0)
	}
	return calculator.Round(ratio, 2), score
}

func volumeScore(st model.MarketStats, normal float64) (ratio, score float64) {
	if normal == 0 {
		return 1.0, 2.5
	}
	ratio = st.TotalTurnover / normal
	switch {
	case ratio < 0.7:
		score = 1.0 + ratio/0.7
	case ratio < 1.0:
		score = 2.0 + (ratio-0.7)/0.3
	case ratio < 1.5:
		score = 3.0 + (ratio-1.0)/0.5
	default:
		score = math.Min(4.0+(ratio-1.5)/0.5, 5.0)
	}
	return calculator.Round(ratio, 2), score
}

func limitScore(st model.MarketStats) (ratio, score float64) {
	if st.TotalCount == 0 {
		return 0, 2.5
	}
	ratio = float64(st.LimitUpCount-st.LimitDownCount) / float64(st.TotalCount)
	switch {
	case ratio < -0.01:
		score = math.Max(1.0, 2.5+(ratio+0.01)*150)
	case ratio < 0:
		score = 2.5 + (ratio+0.01)*50
	case ratio < 0.03:
		score = 2.5 + ratio/0.03*1.5
	default:
		score = math.Min(4.0+(ratio-0.03)/0.02, 5.0)
	}
	return calculator.Round(ratio, 4), score
}

func sentimentLevel(score float64, cfg config.Market) (model.SentimentLevel, string) {
	l := cfg.SentimentLevels
	switch {
	case score <= l.VeryFearful:
		return model.VeryFearful, "Extreme fear"
	case score <= l.Fearful:
		return model.Fearful, "Fear"
	case score <= l.Neutral:
		return model.Neutral, "Neutral"
	case score <= l.Greedy:
		return model.Greedy, "Greed"
	default:
		return model.VeryGreedy, "Extreme greed"
	}
}

// BreadthStatus describes an advance/decline ratio.
func BreadthStatus(ratio float64) string {
	switch {
	case ratio >= 2:
		return "Bullish"
	case ratio >= 1:
		return "Strong"
	case ratio >= 0.5:
		return "Weak"
	default:
		return "Bearish"
	}
}

// LimitRatio is limit-up moves per limit-down move, with at least one
// limit-down assumed.
func LimitRatio(st model.MarketStats) float64 {
	down := st.LimitDownCount
	if down < 1 {
		down = 1
	}
	return float64(st.LimitUpCount) / float64(down)
}

// LimitStatus describes a LimitRatio.
func LimitStatus(ratio float64) string {
	switch {
	case ratio >= 3:
		return "Active"
	case ratio >= 1:
		return "Normal"
	default:
		return "Sluggish"
	}
}

// Snapshot assembles the market overview.
func Snapshot(indices []model.IndexQuote, st model.MarketStats, cfg config.Market, at time.Time) model.MarketSnapshot {
	rounded := make([]model.IndexQuote, len(indices))
	for i, idx := range indices {
		idx.Price = roundNull(idx.Price)
		idx.Change = roundNull(idx.Change)
		idx.ChangePct = roundNull(idx.ChangePct)
		rounded[i] = idx
	}

	sent := Sentiment(st, cfg, at)
	limit := LimitRatio(st)
	return model.MarketSnapshot{
		Timestamp:     at,
		Indices:       rounded,
		Stats:         st,
		BreadthRatio:  sent.BreadthRatio,
		BreadthStatus: BreadthStatus(sent.BreadthRatio),
		LimitRatio:    calculator.Round(limit, 2),
		LimitStatus:   LimitStatus(limit),
		Sentiment:     sent,
	}
}

func roundNull(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(calculator.Round(v.Float64, 2))
}
