package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"

	"StockPulse/internal/model"
)

var groupHeader = []string{"symbol", "name", "price", "change_pct", "overall_score", "recommendation", "risk_level"}

// WriteGroupCSV writes one row per signal, buy first, then hold, then sell.
func WriteGroupCSV(w io.Writer, g *model.GroupAnalysis) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(groupHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range g.Signals.All() {
		row := []string{
			s.Symbol,
			s.Name,
			csvFloat(s.Price),
			csvFloat(s.ChangePct),
			strconv.FormatFloat(s.Score, 'f', -1, 64),
			string(s.Recommendation),
			string(s.Risk),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteScanCSV writes one row per scanner hit.
func WriteScanCSV(w io.Writer, hits []model.ScanHit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"symbol", "name", "price", "change_pct", "events"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, h := range hits {
		kinds := make([]string, len(h.Events))
		for i, e := range h.Events {
			kinds[i] = string(e.Kind)
		}
		row := []string{h.Symbol, h.Name, csvFloat(h.Price), csvFloat(h.ChangePct), strings.Join(kinds, ";")}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", h.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarketCSV writes the index table of a snapshot followed by the
// breadth and sentiment figures as metric,value rows.
func WriteMarketCSV(w io.Writer, m *model.MarketSnapshot) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"metric", "value"}}
	for _, ix := range m.Indices {
		rows = append(rows, []string{ix.Symbol + "_change_pct", csvFloat(ix.ChangePct)})
	}
	st := m.Stats
	rows = append(rows,
		[]string{"total", strconv.Itoa(st.TotalCount)},
		[]string{"up", strconv.Itoa(st.UpCount)},
		[]string{"down", strconv.Itoa(st.DownCount)},
		[]string{"flat", strconv.Itoa(st.FlatCount)},
		[]string{"limit_up", strconv.Itoa(st.LimitUpCount)},
		[]string{"limit_down", strconv.Itoa(st.LimitDownCount)},
		[]string{"turnover", strconv.FormatFloat(st.TotalTurnover, 'f', -1, 64)},
		[]string{"breadth_ratio", strconv.FormatFloat(m.BreadthRatio, 'f', -1, 64)},
		[]string{"sentiment", strconv.FormatFloat(m.Sentiment.Overall, 'f', -1, 64)},
		[]string{"sentiment_level", string(m.Sentiment.Level)},
	)
	for _, sec := range m.HotSectors {
		key := "hot_sector_" + strconv.Itoa(sec.Rank)
		rows = append(rows,
			[]string{key, sec.Name},
			[]string{key + "_change_pct", csvFloat(sec.ChangePct)},
			[]string{key + "_flow_net", csvFloat(sec.FlowNet)},
		)
	}
	for _, sec := range m.FlowRanking {
		rows = append(rows, []string{"flow_" + strconv.Itoa(sec.Rank), sec.Name},
			[]string{"flow_" + strconv.Itoa(sec.Rank) + "_net", csvFloat(sec.FlowNet)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write market csv: %w", err)
	}
	return nil
}

func csvFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', 2, 64)
}
