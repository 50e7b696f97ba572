// Package modeltest builds deterministic bar series for tests.
package modeltest

import (
	"time"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// Epoch is the date of the first generated bar.
var Epoch = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// Bar builds a complete bar on day i after Epoch.
func Bar(i int, open, high, low, close, volume float64) model.OHLCV {
	return model.OHLCV{
		Date:     Epoch.AddDate(0, 0, i),
		Open:     null.FloatFrom(open),
		High:     null.FloatFrom(high),
		Low:      null.FloatFrom(low),
		Close:    null.FloatFrom(close),
		Volume:   null.FloatFrom(volume),
		Turnover: null.FloatFrom(close * volume),
	}
}

// Series builds a daily series from closing prices. Each bar opens at the
// previous close, spans 1% beyond its body and trades a flat volume.
func Series(symbol string, closes ...float64) *model.Series {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		o := c
		if i > 0 {
			o = closes[i-1]
		}
		hi, lo := o, c
		if c > o {
			hi, lo = c, o
		}
		bars[i] = Bar(i, o, hi*1.01, lo*0.99, c, 1_000_000)
	}
	return FromBars(symbol, bars...)
}

// FromBars wraps bars in a daily series.
func FromBars(symbol string, bars ...model.OHLCV) *model.Series {
	return &model.Series{Symbol: symbol, Period: model.PeriodDaily, Bars: bars}
}

// Linear returns n values starting at start and moving by step.
func Linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Flat returns n copies of v.
func Flat(n int, v float64) []float64 {
	return Linear(n, v, 0)
}
