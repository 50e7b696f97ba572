package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// GroupOverview counts advancing and declining members of a group.
type GroupOverview struct {
	UpCount    int
	DownCount  int
	AvgChange  float64
	TotalCount int
}

// Performer is one row of a top/bottom performers table.
type Performer struct {
	Symbol    string
	Name      string
	Price     null.Float
	ChangePct float64
}

// FundamentalRank is a symbol's fundamental score for ranking.
type FundamentalRank struct {
	Symbol string
	Name   string
	Score  ScoreResult
}

// Signal categories.
const (
	CategoryGoldenCross = "golden_cross"
	CategoryOversold    = "oversold"
	CategoryBreakout    = "breakout"
	CategoryDeathCross  = "death_cross"
	CategoryOverbought  = "overbought"
)

// SignalCategories maps a category to the stocks showing it.
type SignalCategories map[string][]StockSignal

// GroupAnalysis is the full report for a watchlist group.
type GroupAnalysis struct {
	Name              string
	StockCount        int
	GeneratedAt       time.Time
	Overview          GroupOverview
	Signals           GroupResult
	TopPerformers     []Performer
	Laggards          []Performer
	FundamentalScores []FundamentalRank
	Categories        SignalCategories
}

// ScanHit is a scanner match: quote fields and the matching events.
type ScanHit struct {
	Symbol    string
	Name      string
	Price     null.Float
	ChangePct null.Float
	Events    []PatternEvent
}

// SentimentLevel classifies the market sentiment score.
type SentimentLevel string

const (
	VeryFearful SentimentLevel = "very_fearful"
	Fearful     SentimentLevel = "fearful"
	Neutral     SentimentLevel = "neutral"
	Greedy      SentimentLevel = "greedy"
	VeryGreedy  SentimentLevel = "very_greedy"
)

// Sentiment is the market sentiment read on a 0-5 scale.
type Sentiment struct {
	BreadthRatio float64
	BreadthScore float64
	VolumeRatio  float64
	VolumeScore  float64
	LimitUpRatio float64
	LimitUpScore float64
	Overall      float64
	Level        SentimentLevel
	Status       string
	Timestamp    time.Time
}

// MarketSnapshot is the market overview: indices, statistics and status.
type MarketSnapshot struct {
	Timestamp     time.Time
	Indices       []IndexQuote
	Stats         MarketStats
	BreadthRatio  float64
	BreadthStatus string
	LimitRatio    float64
	LimitStatus   string
	Sentiment     Sentiment
	HotSectors    []Sector
	FlowRanking   []Sector
}

// NewsItem is a single headline.
type NewsItem struct {
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt time.Time
}

// NewsTone classifies headline sentiment.
type NewsTone string

const (
	TonePositive NewsTone = "positive"
	ToneNegative NewsTone = "negative"
	ToneNeutral  NewsTone = "neutral"
)

// NewsSentiment is the keyword-based tone of a symbol's latest headlines.
type NewsSentiment struct {
	Symbol        string
	Total         int
	PositiveCount int
	NegativeCount int
	Tone          NewsTone
	Latest        []NewsItem
}

// GroupNews folds per-symbol news tone into a group read.
type GroupNews struct {
	BySymbol []NewsSentiment
	Counts   map[NewsTone]int
	Overall  string
}
