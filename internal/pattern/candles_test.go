package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
	"StockPulse/internal/model/modeltest"
)

// withPrefix puts ten white bars (body 1, range 2) ahead of the pattern
// bars so averages are well defined.
func withPrefix(pattern ...[4]float64) *model.Series {
	var bars []model.OHLCV
	for i := 0; i < 10; i++ {
		bars = append(bars, modeltest.Bar(i, 100, 101.5, 99.5, 101, 1000))
	}
	for i, p := range pattern {
		bars = append(bars, modeltest.Bar(10+i, p[0], p[1], p[2], p[3], 1000))
	}
	return modeltest.FromBars("AAA", bars...)
}

func TestCandles(t *testing.T) {
	tests := []struct {
		name     string
		series   *model.Series
		kind     model.PatternKind
		strength int
	}{
		{
			name:     "doji",
			series:   withPrefix([4]float64{100, 101, 99, 100.1}),
			kind:     "bullish_doji",
			strength: 5,
		},
		{
			name:     "hammer",
			series:   withPrefix([4]float64{99.75, 100.05, 98.5, 100}),
			kind:     "bullish_hammer",
			strength: 5,
		},
		{
			name: "bullish engulfing",
			series: withPrefix(
				[4]float64{101, 101.2, 99.8, 100},
				[4]float64{99.8, 101.6, 99.7, 101.5},
			),
			kind:     "bullish_engulfing",
			strength: 5,
		},
		{
			name: "bearish engulfing",
			series: withPrefix(
				[4]float64{100, 101.2, 99.8, 101},
				[4]float64{101.2, 101.3, 99.4, 99.5},
			),
			kind:     "bearish_engulfing",
			strength: -5,
		},
		{
			name: "morning star",
			series: withPrefix(
				[4]float64{103, 103.2, 99.8, 100},
				[4]float64{99.2, 99.3, 98.9, 99.0},
				[4]float64{99.5, 102.1, 99.4, 102},
			),
			kind:     "bullish_morning_star",
			strength: 5,
		},
		{
			name: "evening star",
			series: withPrefix(
				[4]float64{100, 103.2, 99.8, 103},
				[4]float64{103.8, 104.1, 103.7, 104},
				[4]float64{103.5, 103.6, 100.9, 101},
			),
			kind:     "bearish_evening_star",
			strength: -5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := newDetector().candles(tt.series)
			var found *model.PatternEvent
			for i := range events {
				if events[i].Kind == tt.kind {
					found = &events[i]
				}
			}
			if assert.NotNil(t, found, "events: %v", events) {
				assert.Equal(t, tt.strength, found.Strength)
			}
		})
	}
}

func TestCandles_PlainBarsFireNothing(t *testing.T) {
	assert.Empty(t, newDetector().candles(withPrefix([4]float64{100, 101.5, 99.5, 101})))
}

func TestCandles_TooFewBars(t *testing.T) {
	s := modeltest.FromBars("AAA",
		modeltest.Bar(0, 100, 101, 99, 100, 1),
		modeltest.Bar(1, 100, 101, 99, 100, 1),
	)
	assert.Empty(t, newDetector().candles(s))
}

func TestCandles_NullLatestBar(t *testing.T) {
	s := withPrefix([4]float64{100, 101, 99, 100.1})
	s.Bars[s.Len()-1].Close.Valid = false
	assert.Empty(t, newDetector().candles(s))
}
