// Package summary derives group and market aggregates: group overview,
// performers, fundamental ranking, signal categories, market statistics
// and sentiment. Everything here is pure.
package summary

import (
	"sort"
	"strings"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// Overview counts advancing and declining quotes. total is the size of
// the requested group, which may exceed len(quotes) when quotes failed.
func Overview(quotes []model.Quote, total int) model.GroupOverview {
	o := model.GroupOverview{TotalCount: total}
	if len(quotes) == 0 {
		return o
	}
	var sum float64
	for _, q := range quotes {
		chg := q.ChangePct.ValueOrZero()
		switch {
		case chg > 0:
			o.UpCount++
		case chg < 0:
			o.DownCount++
		}
		sum += chg
	}
	o.AvgChange = calculator.Round(sum/float64(len(quotes)), 2)
	return o
}

func performers(quotes []model.Quote) []model.Performer {
	out := make([]model.Performer, len(quotes))
	for i, q := range quotes {
		out[i] = model.Performer{
			Symbol:    q.Symbol,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct.ValueOrZero(),
		}
	}
	return out
}

// TopPerformers returns up to n quotes with the largest change.
func TopPerformers(quotes []model.Quote, n int) []model.Performer {
	out := performers(quotes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePct > out[j].ChangePct })
	return head(out, n)
}

// Laggards returns up to n quotes with the smallest change.
func Laggards(quotes []model.Quote, n int) []model.Performer {
	out := performers(quotes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangePct < out[j].ChangePct })
	return head(out, n)
}

func head(p []model.Performer, n int) []model.Performer {
	if n < len(p) {
		return p[:n]
	}
	return p
}

// RankFundamentals orders ranks by overall score, best first.
func RankFundamentals(ranks []model.FundamentalRank) []model.FundamentalRank {
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Score.Overall > ranks[j].Score.Overall
	})
	return ranks
}

// categoryOrder is matched against event kinds by substring; the first
// match wins.
var categoryOrder = []string{
	model.CategoryGoldenCross,
	model.CategoryOversold,
	model.CategoryBreakout,
	model.CategoryDeathCross,
	model.CategoryOverbought,
}

// Categorize lists every stock under the category of each of its events.
// A stock appears once per matching event; unmatched events are ignored.
func Categorize(g *model.GroupResult) model.SignalCategories {
	cats := make(model.SignalCategories, len(categoryOrder))
	for _, c := range categoryOrder {
		cats[c] = nil
	}
	for _, s := range g.All() {
		for _, e := range s.Patterns {
			if c, ok := categoryOf(e.Kind); ok {
				cats[c] = append(cats[c], s)
			}
		}
	}
	return cats
}

func categoryOf(kind model.PatternKind) (string, bool) {
	for _, c := range categoryOrder {
		if strings.Contains(string(kind), c) {
			return c, true
		}
	}
	return "", false
}
