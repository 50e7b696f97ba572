package calculator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"

	"StockPulse/internal/model"
)

// SMA computes the simple moving average of values over period. The first
// period-1 rows are null, as is any row whose window touches a null input.
// Rows after a null warm up again and are valid once a full window of
// non-null inputs is available.
func SMA(values []float64, period int) []null.Float {
	return segmented(1, func(in [][]float64) [][]null.Float {
		return [][]null.Float{sma(in[0], period)}
	}, values)[0]
}

func sma(values []float64, period int) []null.Float {
	if period <= 0 || len(values) < period {
		return nullColumn(len(values))
	}
	return mask(talib.Sma(values, period), period-1)
}

func extractCloses(bars []model.OHLCV) []float64 {
	return extract(bars, func(b model.OHLCV) null.Float { return b.Close })
}

// extract maps a bar field to a float slice with NaN standing in for null.
func extract(bars []model.OHLCV, field func(model.OHLCV) null.Float) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		v := field(b)
		if v.Valid {
			out[i] = v.Float64
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// mask converts a TA output to a nullable column. Rows before lookback are
// zero-filled by the library and become null, as do NaN and Inf results.
func mask(out []float64, lookback int) []null.Float {
	col := make([]null.Float, len(out))
	for i, v := range out {
		if i < lookback || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		col[i] = null.FloatFrom(v)
	}
	return col
}

// segmented runs fn over every maximal run of rows where all inputs are
// finite and stitches the results into full-length columns. Rows outside a
// run stay null. talib keeps running sums, so a single NaN fed to it would
// otherwise null every later row.
func segmented(outputs int, fn func(in [][]float64) [][]null.Float, inputs ...[]float64) [][]null.Float {
	n := 0
	if len(inputs) > 0 {
		n = len(inputs[0])
	}
	cols := make([][]null.Float, outputs)
	for k := range cols {
		cols[k] = nullColumn(n)
	}

	finite := func(i int) bool {
		for _, in := range inputs {
			if math.IsNaN(in[i]) || math.IsInf(in[i], 0) {
				return false
			}
		}
		return true
	}

	for start := 0; start < n; {
		if !finite(start) {
			start++
			continue
		}
		end := start
		for end < n && finite(end) {
			end++
		}
		run := make([][]float64, len(inputs))
		for k, in := range inputs {
			run[k] = in[start:end]
		}
		for k, out := range fn(run) {
			copy(cols[k][start:end], out)
		}
		start = end
	}
	return cols
}

func nullColumn(n int) []null.Float {
	return make([]null.Float, n)
}
