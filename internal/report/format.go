// Package report renders analysis results as Markdown or CSV for the CLI.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

// Row limits for the rendered tables.
const (
	maxSignalRows   = 10
	maxCategoryRows = 5
	minQualityScore = 7.0
)

func price(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float64, 'f', 2, 64)
}

func pct(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", v.Float64)
}

// flow prints a fund flow in billions.
func flow(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%+.2fB", v.Float64/1e9)
}

func leaders(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(head(names, 3), ", ")
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "/10"
}

func riskLabel(r model.RiskLevel) string {
	switch r {
	case model.RiskLow:
		return "Low"
	case model.RiskMedium:
		return "Medium"
	case model.RiskHigh:
		return "High"
	case model.RiskVeryHigh:
		return "Very high"
	}
	return string(r)
}

func actionLabel(r model.Recommendation) string {
	switch r {
	case model.Buy:
		return "Watch"
	case model.Sell:
		return "Avoid"
	}
	return "Wait"
}

// eventLabels joins the labels of events whose kind contains substr.
func eventLabels(events []model.PatternEvent, substr string) string {
	var out []string
	for _, e := range events {
		if strings.Contains(string(e.Kind), substr) {
			out = append(out, e.Label)
		}
	}
	return strings.Join(out, ", ")
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
