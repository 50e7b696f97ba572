// Package pattern turns the latest rows of an indicator frame into discrete
// pattern events and derives support and resistance levels.
package pattern

import (
	"fmt"

	"github.com/guregu/null/v6"

	"StockPulse/internal/config"
	"StockPulse/internal/model"
)

// Detector evaluates every rule independently; several may fire per scan.
type Detector struct {
	ind config.Indicators
	cfg config.Patterns
}

// NewDetector creates a Detector.
func NewDetector(ind config.Indicators, cfg config.Patterns) *Detector {
	return &Detector{ind: ind, cfg: cfg}
}

// Detect returns the events found on the latest bars of f. It returns no
// events when the frame is shorter than the largest moving-average period.
func (d *Detector) Detect(f *model.Frame) []model.PatternEvent {
	if f == nil || !f.Available || f.Len() < 2 || f.Len() < d.ind.MaxPeriod() {
		return nil
	}

	var events []model.PatternEvent
	events = append(events, d.maCrosses(f)...)
	events = append(events, d.macdCross(f)...)
	events = append(events, d.rsiExtremes(f)...)
	events = append(events, d.breakouts(f)...)
	events = append(events, d.candles(f.Series)...)
	return events
}

// crossed reports an upward (+1) or downward (-1) cross of fast over slow
// between the prior and latest rows, or 0. Any null suppresses detection.
func crossed(prevFast, prevSlow, fast, slow null.Float) int {
	if !prevFast.Valid || !prevSlow.Valid || !fast.Valid || !slow.Valid {
		return 0
	}
	switch {
	case prevFast.Float64 <= prevSlow.Float64 && fast.Float64 > slow.Float64:
		return 1
	case prevFast.Float64 >= prevSlow.Float64 && fast.Float64 < slow.Float64:
		return -1
	}
	return 0
}

func (d *Detector) maCrosses(f *model.Frame) []model.PatternEvent {
	var events []model.PatternEvent
	periods := d.ind.SortedMAPeriods()
	strength := d.cfg.Strengths.MACross

	for i := 0; i+1 < len(periods); i++ {
		fast, slow := model.MAColumn(periods[i]), model.MAColumn(periods[i+1])
		switch crossed(f.At(fast, 1), f.At(slow, 1), f.At(fast, 0), f.At(slow, 0)) {
		case 1:
			events = append(events, model.PatternEvent{
				Kind:      model.KindGoldenCross,
				Label:     fmt.Sprintf("MA%d golden cross MA%d", periods[i], periods[i+1]),
				Strength:  strength,
				Rationale: fmt.Sprintf("%d-bar average crossed above the %d-bar average", periods[i], periods[i+1]),
			})
		case -1:
			events = append(events, model.PatternEvent{
				Kind:      model.KindDeathCross,
				Label:     fmt.Sprintf("MA%d death cross MA%d", periods[i], periods[i+1]),
				Strength:  -strength,
				Rationale: fmt.Sprintf("%d-bar average crossed below the %d-bar average", periods[i], periods[i+1]),
			})
		}
	}
	return events
}

func (d *Detector) macdCross(f *model.Frame) []model.PatternEvent {
	strength := d.cfg.Strengths.MACDCross
	switch crossed(f.At(model.ColMACD, 1), f.At(model.ColMACDSignal, 1), f.At(model.ColMACD, 0), f.At(model.ColMACDSignal, 0)) {
	case 1:
		return []model.PatternEvent{{
			Kind:      model.KindMACDGoldenCross,
			Label:     "MACD golden cross",
			Strength:  strength,
			Rationale: "MACD line crossed above its signal line",
		}}
	case -1:
		return []model.PatternEvent{{
			Kind:      model.KindMACDDeathCross,
			Label:     "MACD death cross",
			Strength:  -strength,
			Rationale: "MACD line crossed below its signal line",
		}}
	}
	return nil
}

func (d *Detector) rsiExtremes(f *model.Frame) []model.PatternEvent {
	rsi := f.At(model.ColRSI, 0)
	if !rsi.Valid {
		return nil
	}
	strength := d.cfg.Strengths.RSIExtreme
	switch {
	case rsi.Float64 < d.ind.RSI.Oversold:
		return []model.PatternEvent{{
			Kind:      model.KindRSIOversold,
			Label:     fmt.Sprintf("RSI oversold (%.0f)", rsi.Float64),
			Strength:  strength,
			Rationale: fmt.Sprintf("RSI=%.0f, near the oversold zone", rsi.Float64),
		}}
	case rsi.Float64 > d.ind.RSI.Overbought:
		return []model.PatternEvent{{
			Kind:      model.KindRSIOverbought,
			Label:     fmt.Sprintf("RSI overbought (%.0f)", rsi.Float64),
			Strength:  -strength,
			Rationale: fmt.Sprintf("RSI=%.0f, inside the overbought zone", rsi.Float64),
		}}
	}
	return nil
}

// VolumeRatio is latest/previous volume, or 1 when the previous volume is
// zero. ok is false when either volume is null.
func VolumeRatio(prev, latest model.OHLCV) (ratio float64, ok bool) {
	if !prev.Volume.Valid || !latest.Volume.Valid {
		return 0, false
	}
	if prev.Volume.Float64 <= 0 {
		return 1, true
	}
	return latest.Volume.Float64 / prev.Volume.Float64, true
}

func (d *Detector) breakouts(f *model.Frame) []model.PatternEvent {
	var events []model.PatternEvent
	latest, _ := f.Series.Last(0)
	prev, _ := f.Series.Last(1)

	if ratio, ok := VolumeRatio(prev, latest); ok {
		up := latest.Close.Valid && prev.Close.Valid && latest.Close.Float64 > prev.Close.Float64
		if up && ratio > d.cfg.VolumeBreakoutRatio {
			events = append(events, model.PatternEvent{
				Kind:      model.KindVolumeBreakout,
				Label:     "Volume breakout",
				Strength:  d.cfg.Strengths.VolumeBreakout,
				Rationale: fmt.Sprintf("volume %.1fx the previous bar with a higher close", ratio),
			})
		}
	}

	upper, lower := f.At(model.ColBollUpper, 0), f.At(model.ColBollLower, 0)
	if !upper.Valid || !latest.Close.Valid {
		return events
	}
	strength := d.cfg.Strengths.BandBreakout
	switch {
	case latest.Close.Float64 > upper.Float64:
		events = append(events, model.PatternEvent{
			Kind:      model.KindBollUpperBreak,
			Label:     "Broke above upper Bollinger band",
			Strength:  strength,
			Rationale: "close above the upper band, a strength signal",
		})
	case lower.Valid && latest.Close.Float64 < lower.Float64:
		events = append(events, model.PatternEvent{
			Kind:      model.KindBollLowerBreak,
			Label:     "Broke below lower Bollinger band",
			Strength:  -strength,
			Rationale: "close below the lower band, a weakness signal",
		})
	}
	return events
}
