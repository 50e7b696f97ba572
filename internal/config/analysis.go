package config

import (
	"fmt"
	"sort"
)

// Analysis holds every threshold, weight and window used by the scoring
// pipeline. It is read-only for the lifetime of a scan.
type Analysis struct {
	Indicators Indicators `yaml:"indicators"`
	Patterns   Patterns   `yaml:"patterns"`
	Scoring    Scoring    `yaml:"scoring"`
	Signals    Signals    `yaml:"signals"`
	Market     Market     `yaml:"market"`
	Scan       Scan       `yaml:"scan"`
}

// Indicators configures the indicator engine.
type Indicators struct {
	MAPeriods []int `yaml:"ma_periods"`
	MACD      struct {
		Fast   int `yaml:"fast"`
		Slow   int `yaml:"slow"`
		Signal int `yaml:"signal"`
	} `yaml:"macd"`
	RSI struct {
		Period     int     `yaml:"period"`
		Oversold   float64 `yaml:"oversold"`
		Overbought float64 `yaml:"overbought"`
	} `yaml:"rsi"`
	Bollinger struct {
		Period int     `yaml:"period"`
		StdDev float64 `yaml:"std_dev"`
	} `yaml:"bollinger"`
}

// MaxPeriod returns the largest configured moving-average period.
func (i Indicators) MaxPeriod() int {
	max := 0
	for _, p := range i.MAPeriods {
		if p > max {
			max = p
		}
	}
	return max
}

// SortedMAPeriods returns the moving-average periods in ascending order.
func (i Indicators) SortedMAPeriods() []int {
	out := append([]int(nil), i.MAPeriods...)
	sort.Ints(out)
	return out
}

// Strengths are the signed strengths assigned to bullish pattern events;
// bearish events use the negated value.
type Strengths struct {
	MACross        int `yaml:"ma_cross"`
	MACDCross      int `yaml:"macd_cross"`
	RSIExtreme     int `yaml:"rsi_extreme"`
	VolumeBreakout int `yaml:"volume_breakout"`
	BandBreakout   int `yaml:"band_breakout"`
	Candle         int `yaml:"candle"`
}

// Patterns configures the pattern detector.
type Patterns struct {
	VolumeBreakoutRatio float64   `yaml:"volume_breakout_ratio"`
	LevelWindow         int       `yaml:"level_window"`
	LevelCount          int       `yaml:"level_count"`
	Strengths           Strengths `yaml:"strengths"`
}

// Weights is a named weight set; each set should sum to 1.0.
type Weights map[string]float64

// Scoring configures the technical and fundamental scores.
type Scoring struct {
	MinBars           int     `yaml:"min_bars"`
	TrendAnchorPeriod int     `yaml:"trend_anchor_period"`
	TrendLookback     int     `yaml:"trend_lookback"`
	Technical         Weights `yaml:"technical"`
	Fundamental       Weights `yaml:"fundamental"`
	Overall           Weights `yaml:"overall"`
}

// Signals configures the signal aggregator.
type Signals struct {
	BuyThreshold     float64 `yaml:"buy_threshold"`
	SellThreshold    float64 `yaml:"sell_threshold"`
	StrengthScale    float64 `yaml:"strength_scale"`
	RiskCutoff       int     `yaml:"risk_cutoff"`
	EntryDiscount    float64 `yaml:"entry_discount"`
	TargetPremium    float64 `yaml:"target_premium"`
	SupportStop      float64 `yaml:"support_stop"`
	PriceStop        float64 `yaml:"price_stop"`
	BuyRatioMany     float64 `yaml:"buy_ratio_many"`
	BuyRatioModerate float64 `yaml:"buy_ratio_moderate"`
	BuyRatioMixed    float64 `yaml:"buy_ratio_mixed"`
}

// Market configures the market summarizers.
type Market struct {
	SentimentWeights Weights `yaml:"sentiment_weights"`
	SentimentLevels  struct {
		VeryFearful float64 `yaml:"very_fearful"`
		Fearful     float64 `yaml:"fearful"`
		Neutral     float64 `yaml:"neutral"`
		Greedy      float64 `yaml:"greedy"`
	} `yaml:"sentiment_levels"`
	NormalTurnover float64 `yaml:"normal_turnover"`
	LimitMovePct   float64 `yaml:"limit_move_pct"`
	// HotThreshold is the minimum sector change, in percent, of a hot sector.
	HotThreshold   float64 `yaml:"hot_threshold"`
	HotSectorsTopN int     `yaml:"hot_sectors_top_n"`
	FlowTopN       int     `yaml:"flow_top_n"`
	// StrongFlow separates a sustained inflow or heavy outflow from an
	// ordinary one.
	StrongFlow float64 `yaml:"strong_flow"`
}

// Scan configures data requests and report sizes.
type Scan struct {
	Period string `yaml:"period"`
	Count  int    `yaml:"count"`
	TopN   int    `yaml:"top_n"`
}

// DefaultAnalysis returns the documented defaults.
func DefaultAnalysis() Analysis {
	var a Analysis

	a.Indicators.MAPeriods = []int{5, 10, 20, 60}
	a.Indicators.MACD.Fast = 12
	a.Indicators.MACD.Slow = 26
	a.Indicators.MACD.Signal = 9
	a.Indicators.RSI.Period = 14
	a.Indicators.RSI.Oversold = 30
	a.Indicators.RSI.Overbought = 70
	a.Indicators.Bollinger.Period = 20
	a.Indicators.Bollinger.StdDev = 2.0

	a.Patterns.VolumeBreakoutRatio = 1.5
	a.Patterns.LevelWindow = 20
	a.Patterns.LevelCount = 3
	a.Patterns.Strengths = Strengths{
		MACross:        8,
		MACDCross:      6,
		RSIExtreme:     7,
		VolumeBreakout: 7,
		BandBreakout:   7,
		Candle:         5,
	}

	a.Scoring.MinBars = 20
	a.Scoring.TrendAnchorPeriod = 20
	a.Scoring.TrendLookback = 10
	a.Scoring.Technical = Weights{"trend": 0.4, "momentum": 0.3, "volume": 0.3}
	a.Scoring.Fundamental = Weights{"valuation": 0.3, "growth": 0.4, "quality": 0.3}
	a.Scoring.Overall = Weights{"technical": 0.6, "fundamental": 0.4}

	a.Signals.BuyThreshold = 7.0
	a.Signals.SellThreshold = 3.0
	a.Signals.StrengthScale = 8
	a.Signals.RiskCutoff = 3
	a.Signals.EntryDiscount = 0.98
	a.Signals.TargetPremium = 1.10
	a.Signals.SupportStop = 0.97
	a.Signals.PriceStop = 0.95
	a.Signals.BuyRatioMany = 50
	a.Signals.BuyRatioModerate = 30
	a.Signals.BuyRatioMixed = 10

	a.Market.SentimentWeights = Weights{"breadth": 0.4, "volume": 0.3, "limit_up": 0.3}
	a.Market.SentimentLevels.VeryFearful = 2.0
	a.Market.SentimentLevels.Fearful = 3.0
	a.Market.SentimentLevels.Neutral = 4.0
	a.Market.SentimentLevels.Greedy = 4.5
	a.Market.NormalTurnover = 5e11
	a.Market.LimitMovePct = 9.9
	a.Market.HotThreshold = 2.0
	a.Market.HotSectorsTopN = 5
	a.Market.FlowTopN = 10
	a.Market.StrongFlow = 5e9

	a.Scan.Period = "daily"
	a.Scan.Count = 100
	a.Scan.TopN = 5
	return a
}

// Validate rejects settings the pipeline cannot run with. Weight sums are
// not enforced.
func (a *Analysis) Validate() error {
	ind := a.Indicators
	if len(ind.MAPeriods) < 2 {
		return fmt.Errorf("analysis.indicators.ma_periods needs at least two periods")
	}
	seen := make(map[int]bool, len(ind.MAPeriods))
	for _, p := range ind.MAPeriods {
		if p <= 0 {
			return fmt.Errorf("analysis.indicators.ma_periods: period %d must be positive", p)
		}
		if seen[p] {
			return fmt.Errorf("analysis.indicators.ma_periods: duplicate period %d", p)
		}
		seen[p] = true
	}
	if ind.MACD.Fast <= 0 || ind.MACD.Slow <= ind.MACD.Fast || ind.MACD.Signal <= 0 {
		return fmt.Errorf("analysis.indicators.macd: need 0 < fast < slow and signal > 0")
	}
	if ind.RSI.Period <= 0 || ind.RSI.Oversold >= ind.RSI.Overbought {
		return fmt.Errorf("analysis.indicators.rsi: need period > 0 and oversold < overbought")
	}
	if ind.Bollinger.Period <= 1 || ind.Bollinger.StdDev <= 0 {
		return fmt.Errorf("analysis.indicators.bollinger: need period > 1 and std_dev > 0")
	}
	if a.Patterns.LevelWindow <= 0 || a.Patterns.LevelCount <= 0 {
		return fmt.Errorf("analysis.patterns: level_window and level_count must be positive")
	}
	if a.Scoring.MinBars < 2 || a.Scoring.TrendLookback < 2 {
		return fmt.Errorf("analysis.scoring: min_bars and trend_lookback must be at least 2")
	}
	if a.Signals.SellThreshold >= a.Signals.BuyThreshold {
		return fmt.Errorf("analysis.signals: sell_threshold must be below buy_threshold")
	}
	if a.Signals.StrengthScale <= 0 {
		return fmt.Errorf("analysis.signals.strength_scale must be positive")
	}
	if a.Market.HotSectorsTopN < 0 || a.Market.FlowTopN < 0 {
		return fmt.Errorf("analysis.market: hot_sectors_top_n and flow_top_n must not be negative")
	}
	if a.Scan.Count <= 0 || a.Scan.TopN <= 0 {
		return fmt.Errorf("analysis.scan: count and top_n must be positive")
	}
	return nil
}
