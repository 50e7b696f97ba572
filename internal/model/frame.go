package model

import (
	"strconv"

	"github.com/guregu/null/v6"
)

// Column names of an indicator frame.
const (
	ColMACD       = "macd"
	ColMACDSignal = "macd_signal"
	ColMACDHist   = "macd_hist"
	ColRSI        = "rsi"
	ColBollUpper  = "boll_upper"
	ColBollMiddle = "boll_middle"
	ColBollLower  = "boll_lower"
	ColATR        = "atr"
)

// MAColumn names the moving-average column for a period.
func MAColumn(period int) string { return "ma_" + strconv.Itoa(period) }

// Frame is a Series extended with derived indicator columns. Every column
// has one value per bar; warm-up rows are null.
type Frame struct {
	Series    *Series
	Available bool
	Columns   map[string][]null.Float
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.Series.Len()
}

// Column returns a named column, or nil when it was not computed.
func (f *Frame) Column(name string) []null.Float {
	if f == nil || f.Columns == nil {
		return nil
	}
	return f.Columns[name]
}

// At returns the value of a column n rows from the end (0 is the latest).
// Missing columns and out-of-range rows read as null.
func (f *Frame) At(name string, n int) null.Float {
	col := f.Column(name)
	i := len(col) - 1 - n
	if i < 0 || i >= len(col) {
		return null.Float{}
	}
	return col[i]
}
