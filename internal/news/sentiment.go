package news

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"StockPulse/internal/model"
)

var (
	positiveWords = []string{"beat", "surge", "soar", "rally", "record", "growth", "upgrade", "buyback", "profit", "raises"}
	negativeWords = []string{"miss", "plunge", "slump", "loss", "downgrade", "lawsuit", "subpoena", "investigation", "recall", "cuts"}
)

func mentions(title string, words []string) bool {
	title = strings.ToLower(title)
	for _, w := range words {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}

// Tone counts headlines with at least one positive and one negative
// keyword. The tone leans one way only when that side has more than
// twice the hits of the other.
func Tone(items []model.NewsItem) (positive, negative int, tone model.NewsTone) {
	for _, it := range items {
		if mentions(it.Title, positiveWords) {
			positive++
		}
		if mentions(it.Title, negativeWords) {
			negative++
		}
	}
	switch {
	case positive > negative*2:
		tone = model.TonePositive
	case negative > positive*2:
		tone = model.ToneNegative
	default:
		tone = model.ToneNeutral
	}
	return positive, negative, tone
}

// Overall describes per-symbol tone counts for a group.
func Overall(counts map[model.NewsTone]int) string {
	pos, neg := counts[model.TonePositive], counts[model.ToneNegative]
	if pos+neg+counts[model.ToneNeutral] == 0 {
		return "Insufficient data"
	}
	switch {
	case float64(pos) > float64(neg)*1.5:
		return "Mostly positive"
	case float64(neg) > float64(pos)*1.5:
		return "Mostly negative"
	default:
		return "Neutral overall"
	}
}

// Analyzer grades headline tone per symbol and per group.
type Analyzer struct {
	src   Source
	limit int
	log   *zap.Logger
}

// NewAnalyzer creates an Analyzer reading limit headlines per symbol.
func NewAnalyzer(src Source, limit int, log *zap.Logger) *Analyzer {
	return &Analyzer{src: src, limit: limit, log: log}
}

// Sentiment grades the latest headlines of one symbol.
func (a *Analyzer) Sentiment(ctx context.Context, symbol string) (*model.NewsSentiment, error) {
	return a.sentiment(ctx, symbol, a.limit)
}

func (a *Analyzer) sentiment(ctx context.Context, symbol string, limit int) (*model.NewsSentiment, error) {
	items, err := a.src.FetchNews(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoNews
	}
	pos, neg, tone := Tone(items)
	return &model.NewsSentiment{
		Symbol:        symbol,
		Total:         len(items),
		PositiveCount: pos,
		NegativeCount: neg,
		Tone:          tone,
		Latest:        items,
	}, nil
}

// Group grades perSymbol headlines of every symbol. Symbols whose feed
// fails are skipped.
func (a *Analyzer) Group(ctx context.Context, symbols []string, perSymbol int) model.GroupNews {
	g := model.GroupNews{Counts: map[model.NewsTone]int{
		model.TonePositive: 0,
		model.ToneNegative: 0,
		model.ToneNeutral:  0,
	}}
	for _, sym := range symbols {
		s, err := a.sentiment(ctx, sym, perSymbol)
		if err != nil {
			a.log.Warn("news sentiment failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		g.BySymbol = append(g.BySymbol, *s)
		g.Counts[s.Tone]++
	}
	g.Overall = Overall(g.Counts)
	return g
}
