package calculator

import (
	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"

	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// ATRPeriod is the volatility window; it does not follow the other settings.
const ATRPeriod = 14

// Compute derives the indicator frame of a series. When the series is
// shorter than the largest moving-average period the frame carries no
// columns and Available is false; callers treat that as indicators
// unavailable, not as an error.
func Compute(s *model.Series, cfg config.Indicators) *model.Frame {
	f := &model.Frame{Series: s, Columns: make(map[string][]null.Float)}
	n := s.Len()
	if n == 0 || n < cfg.MaxPeriod() {
		return f
	}
	f.Available = true

	closes := extractCloses(s.Bars)

	for _, p := range cfg.MAPeriods {
		f.Columns[model.MAColumn(p)] = SMA(closes, p)
	}

	macd, signal, hist := MACD(closes, cfg.MACD.Fast, cfg.MACD.Slow, cfg.MACD.Signal)
	f.Columns[model.ColMACD] = macd
	f.Columns[model.ColMACDSignal] = signal
	f.Columns[model.ColMACDHist] = hist

	f.Columns[model.ColRSI] = RSI(closes, cfg.RSI.Period)

	upper, middle, lower := Bollinger(closes, cfg.Bollinger.Period, cfg.Bollinger.StdDev)
	f.Columns[model.ColBollUpper] = upper
	f.Columns[model.ColBollMiddle] = middle
	f.Columns[model.ColBollLower] = lower

	highs := extract(s.Bars, func(b model.OHLCV) null.Float { return b.High })
	lows := extract(s.Bars, func(b model.OHLCV) null.Float { return b.Low })
	f.Columns[model.ColATR] = ATR(highs, lows, closes, ATRPeriod)

	return f
}

// MACD returns the oscillator line, its signal line and the histogram.
// All three share the warm-up of (slow-1)+(signal-1) rows, restarted after
// every null close.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []null.Float) {
	cols := segmented(3, func(in [][]float64) [][]null.Float {
		m, s, h := macd(in[0], fast, slow, signal)
		return [][]null.Float{m, s, h}
	}, closes)
	return cols[0], cols[1], cols[2]
}

func macd(closes []float64, fast, slow, signal int) (line, sig, hist []null.Float) {
	lookback := (slow - 1) + (signal - 1)
	if len(closes) <= lookback {
		n := len(closes)
		return nullColumn(n), nullColumn(n), nullColumn(n)
	}
	m, s, h := talib.Macd(closes, fast, slow, signal)
	return mask(m, lookback), mask(s, lookback), mask(h, lookback)
}

// RSI returns the relative strength index; the first period rows are null
// and the warm-up restarts after a null close.
func RSI(closes []float64, period int) []null.Float {
	return segmented(1, func(in [][]float64) [][]null.Float {
		return [][]null.Float{rsi(in[0], period)}
	}, closes)[0]
}

func rsi(closes []float64, period int) []null.Float {
	if len(closes) <= period {
		return nullColumn(len(closes))
	}
	return mask(talib.Rsi(closes, period), period)
}

// Bollinger returns the upper, middle and lower bands around an SMA midline.
func Bollinger(closes []float64, period int, width float64) (upper, middle, lower []null.Float) {
	cols := segmented(3, func(in [][]float64) [][]null.Float {
		u, m, l := bollinger(in[0], period, width)
		return [][]null.Float{u, m, l}
	}, closes)
	return cols[0], cols[1], cols[2]
}

func bollinger(closes []float64, period int, width float64) (upper, middle, lower []null.Float) {
	if len(closes) < period {
		n := len(closes)
		return nullColumn(n), nullColumn(n), nullColumn(n)
	}
	u, m, l := talib.BBands(closes, period, width, width, talib.SMA)
	return mask(u, period-1), mask(m, period-1), mask(l, period-1)
}

// ATR returns the average true range; the first period rows are null. A
// row with any null price breaks the series and the warm-up restarts.
func ATR(highs, lows, closes []float64, period int) []null.Float {
	return segmented(1, func(in [][]float64) [][]null.Float {
		return [][]null.Float{atr(in[0], in[1], in[2], period)}
	}, highs, lows, closes)[0]
}

func atr(highs, lows, closes []float64, period int) []null.Float {
	if len(closes) <= period {
		return nullColumn(len(closes))
	}
	return mask(talib.Atr(highs, lows, closes, period), period)
}
