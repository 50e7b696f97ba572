package collector

import (
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

func dailyPerBar(period model.Period) int {
	switch period {
	case model.PeriodWeekly:
		return 7
	case model.PeriodMonthly:
		return 31
	default:
		return 1
	}
}

func bucketKey(t time.Time, period model.Period) int {
	if period == model.PeriodMonthly {
		return t.Year()*100 + int(t.Month())
	}
	year, week := t.ISOWeek()
	return year*100 + week
}

// Aggregate folds ascending daily bars into weekly (ISO week) or monthly
// bars. Each bucket is dated by its first day. Null readings are skipped
// when taking highs, lows and sums; a bucket keeps the first valid open
// and the last valid close.
func Aggregate(daily []model.OHLCV, period model.Period) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var out []model.OHLCV
	var cur model.OHLCV
	curKey := -1

	for _, d := range daily {
		key := bucketKey(d.Date, period)
		if key != curKey {
			if curKey != -1 {
				out = append(out, cur)
			}
			cur = d
			curKey = key
			continue
		}
		if !cur.Open.Valid {
			cur.Open = d.Open
		}
		cur.High = pick(cur.High, d.High, func(a, b float64) bool { return b > a })
		cur.Low = pick(cur.Low, d.Low, func(a, b float64) bool { return b < a })
		if d.Close.Valid {
			cur.Close = d.Close
		}
		cur.Volume = sum(cur.Volume, d.Volume)
		cur.Turnover = sum(cur.Turnover, d.Turnover)
	}
	return append(out, cur)
}

func pick(cur, next null.Float, better func(a, b float64) bool) null.Float {
	if !next.Valid {
		return cur
	}
	if !cur.Valid || better(cur.Float64, next.Float64) {
		return next
	}
	return cur
}

func sum(a, b null.Float) null.Float {
	switch {
	case !b.Valid:
		return a
	case !a.Valid:
		return b
	default:
		return null.FloatFrom(a.Float64 + b.Float64)
	}
}
