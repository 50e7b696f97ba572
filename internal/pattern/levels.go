package pattern

import (
	"math"
	"sort"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"StockPulse/internal/model"
)

// Levels holds support and resistance prices, each sorted ascending.
type Levels struct {
	Support    []float64
	Resistance []float64
}

// SupportResistance scans the trailing window bars. Support is the highest
// LevelCount distinct lows rounded to cents, resistance the highest
// distinct highs. Both are empty when fewer than window bars exist.
func (d *Detector) SupportResistance(s *model.Series) Levels {
	window := d.cfg.LevelWindow
	if s.Len() == 0 || s.Len() < window {
		return Levels{}
	}
	recent := s.Tail(window)
	return Levels{
		Support:    topDistinct(recent, func(b model.OHLCV) null.Float { return b.Low }, d.cfg.LevelCount),
		Resistance: topDistinct(recent, func(b model.OHLCV) null.Float { return b.High }, d.cfg.LevelCount),
	}
}

func topDistinct(bars []model.OHLCV, field func(model.OHLCV) null.Float, n int) []float64 {
	seen := make(map[string]bool, len(bars))
	var values []float64
	for _, b := range bars {
		v := field(b)
		if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
			continue
		}
		r := decimal.NewFromFloat(v.Float64).Round(2)
		key := r.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		values = append(values, r.InexactFloat64())
	}
	sort.Float64s(values)
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return values
}
