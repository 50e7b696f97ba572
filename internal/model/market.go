package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Period is the bar interval requested from a data source.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// OHLCV represents a single candlestick bar. Missing readings are null.
type OHLCV struct {
	Date     time.Time
	Open     null.Float
	High     null.Float
	Low      null.Float
	Close    null.Float
	Volume   null.Float
	Turnover null.Float
}

// Series is an ascending, duplicate-free sequence of bars for one symbol.
// It is read-only once fetched.
type Series struct {
	Symbol string
	Period Period
	Bars   []OHLCV
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Empty reports whether the series holds no bars.
func (s *Series) Empty() bool { return s.Len() == 0 }

// Last returns the bar n positions from the end (0 is the latest).
func (s *Series) Last(n int) (OHLCV, bool) {
	i := s.Len() - 1 - n
	if i < 0 {
		return OHLCV{}, false
	}
	return s.Bars[i], true
}

// Tail returns the trailing n bars (all bars when n exceeds the length).
func (s *Series) Tail(n int) []OHLCV {
	if n >= s.Len() {
		return s.Bars
	}
	return s.Bars[s.Len()-n:]
}

// Quote is a point-in-time snapshot for one symbol. Any field may be null.
type Quote struct {
	Symbol    string
	Name      string
	Price     null.Float
	ChangePct null.Float
	Volume    null.Float
	Turnover  null.Float
	MarketCap null.Float
}

// Fundamentals holds valuation ratios and capitalisation.
type Fundamentals struct {
	Symbol         string
	PE             null.Float
	PB             null.Float
	PS             null.Float
	MarketCap      null.Float
	CirculatingCap null.Float
}

// IndexQuote is a snapshot of a market index.
type IndexQuote struct {
	Symbol    string
	Name      string
	Price     null.Float
	Change    null.Float
	ChangePct null.Float
}

// Sector is one industry sector's daily move and fund flow. Flow figures
// are in the source's currency units and may be null.
type Sector struct {
	Rank      int
	Code      string
	Name      string
	ChangePct null.Float
	Turnover  null.Float
	FlowIn    null.Float
	FlowOut   null.Float
	FlowNet   null.Float
	Leaders   []string
	// FlowComment reads the net flow; set on fund-flow rankings only.
	FlowComment string
}

// MarketStats aggregates a market-wide quote snapshot.
type MarketStats struct {
	TotalCount     int
	UpCount        int
	DownCount      int
	FlatCount      int
	LimitUpCount   int
	LimitDownCount int
	TotalTurnover  float64
}
