package pattern

import (
	"fmt"
	"math"
	"strings"

	"StockPulse/internal/model"
)

// Candle thresholds, relative to the average range or body of the bars
// before the one being classified.
const (
	averagePeriod     = 10
	dojiBodyRatio     = 0.1
	veryShortShadow   = 0.1
	nearRatio         = 0.2
	starPenetration   = 0.3
	minCandlePatterns = 3
)

type candle struct{ o, h, l, c float64 }

func toCandle(b model.OHLCV) (candle, bool) {
	if !b.Open.Valid || !b.High.Valid || !b.Low.Valid || !b.Close.Valid {
		return candle{}, false
	}
	return candle{b.Open.Float64, b.High.Float64, b.Low.Float64, b.Close.Float64}, true
}

func (k candle) body() float64        { return math.Abs(k.c - k.o) }
func (k candle) span() float64        { return k.h - k.l }
func (k candle) white() bool          { return k.c >= k.o }
func (k candle) bodyTop() float64     { return math.Max(k.o, k.c) }
func (k candle) bodyLow() float64     { return math.Min(k.o, k.c) }
func (k candle) upperShadow() float64 { return k.h - k.bodyTop() }
func (k candle) lowerShadow() float64 { return k.bodyLow() - k.l }

// average of metric over up to averagePeriod candles before i, falling
// back to candle i itself when nothing precedes it.
func average(cs []candle, i int, metric func(candle) float64) float64 {
	start := i - averagePeriod
	if start < 0 {
		start = 0
	}
	if start == i {
		return metric(cs[i])
	}
	sum := 0.0
	for j := start; j < i; j++ {
		sum += metric(cs[j])
	}
	return sum / float64(i-start)
}

func avgSpan(cs []candle, i int) float64 { return average(cs, i, candle.span) }
func avgBody(cs []candle, i int) float64 { return average(cs, i, candle.body) }

// candleRule classifies the last candle of cs: +1 bullish, -1 bearish, 0 none.
type candleRule struct {
	name   string
	detect func(cs []candle) int
}

var candleRules = []candleRule{
	{"doji", doji},
	{"hammer", hammer},
	{"morning_star", morningStar},
	{"evening_star", eveningStar},
	{"engulfing", engulfing},
}

// doji: open and close virtually equal.
func doji(cs []candle) int {
	i := len(cs) - 1
	if cs[i].body() <= dojiBodyRatio*avgSpan(cs, i) {
		return 1
	}
	return 0
}

// hammer: small body near the prior low, long lower shadow, almost no
// upper shadow.
func hammer(cs []candle) int {
	i := len(cs) - 1
	k := cs[i]
	if k.body() < avgBody(cs, i) &&
		k.lowerShadow() > k.body() &&
		k.upperShadow() < veryShortShadow*avgSpan(cs, i) &&
		k.bodyLow() <= cs[i-1].l+nearRatio*avgSpan(cs, i) {
		return 1
	}
	return 0
}

// morningStar: long black, short body gapping down, white closing well
// into the first body.
func morningStar(cs []candle) int {
	i := len(cs) - 1
	first, star, last := cs[i-2], cs[i-1], cs[i]
	if !first.white() && first.body() > avgBody(cs, i-2) &&
		star.body() <= avgBody(cs, i-1) &&
		star.bodyTop() < first.bodyLow() &&
		last.white() && last.body() > avgBody(cs, i) &&
		last.c > first.c+first.body()*starPenetration {
		return 1
	}
	return 0
}

// eveningStar: long white, short body gapping up, black closing well into
// the first body.
func eveningStar(cs []candle) int {
	i := len(cs) - 1
	first, star, last := cs[i-2], cs[i-1], cs[i]
	if first.white() && first.body() > avgBody(cs, i-2) &&
		star.body() <= avgBody(cs, i-1) &&
		star.bodyLow() > first.bodyTop() &&
		!last.white() && last.body() > avgBody(cs, i) &&
		last.c < first.c-first.body()*starPenetration {
		return -1
	}
	return 0
}

// engulfing: the latest body engulfs the opposite-coloured body before it.
func engulfing(cs []candle) int {
	i := len(cs) - 1
	prev, cur := cs[i-1], cs[i]
	switch {
	case cur.white() && !prev.white() &&
		((cur.c >= prev.o && cur.o < prev.c) || (cur.c > prev.o && cur.o <= prev.c)):
		return 1
	case !cur.white() && prev.white() &&
		((cur.o >= prev.c && cur.c < prev.o) || (cur.o > prev.c && cur.c <= prev.o)):
		return -1
	}
	return 0
}

// candles evaluates the candle catalog on the trailing bars. Bars with a
// null price break the sequence, so only the unbroken tail is used.
func (d *Detector) candles(s *model.Series) []model.PatternEvent {
	tail := s.Tail(averagePeriod + minCandlePatterns)
	cs := make([]candle, 0, len(tail))
	for _, b := range tail {
		k, ok := toCandle(b)
		if !ok {
			cs = cs[:0]
			continue
		}
		cs = append(cs, k)
	}
	if len(cs) < minCandlePatterns {
		return nil
	}

	var events []model.PatternEvent
	for _, rule := range candleRules {
		sign := rule.detect(cs)
		if sign == 0 {
			continue
		}
		label := strings.ReplaceAll(rule.name, "_", " ")
		if sign > 0 {
			events = append(events, model.PatternEvent{
				Kind:      model.CandleKind(true, rule.name),
				Label:     fmt.Sprintf("Bullish %s", label),
				Strength:  d.cfg.Strengths.Candle,
				Rationale: "bullish candlestick pattern",
			})
		} else {
			events = append(events, model.PatternEvent{
				Kind:      model.CandleKind(false, rule.name),
				Label:     fmt.Sprintf("Bearish %s", label),
				Strength:  -d.cfg.Strengths.Candle,
				Rationale: "bearish candlestick pattern",
			})
		}
	}
	return events
}
