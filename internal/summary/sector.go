package summary

import (
	"sort"

	"StockPulse/internal/model"
)

// HotSectors keeps sectors whose change is at least threshold percent,
// strongest first, limited to topN and ranked from 1. Sectors without a
// change reading are skipped.
func HotSectors(sectors []model.Sector, threshold float64, topN int) []model.Sector {
	var hot []model.Sector
	for _, s := range sectors {
		if s.ChangePct.Valid && s.ChangePct.Float64 >= threshold {
			hot = append(hot, s)
		}
	}
	sort.SliceStable(hot, func(i, j int) bool {
		return hot[i].ChangePct.Float64 > hot[j].ChangePct.Float64
	})
	return ranked(hot, topN)
}

// FlowRanking orders sectors by net fund flow, largest inflow first,
// limited to topN, and comments each flow against strong. Sectors without
// a flow reading are skipped.
func FlowRanking(sectors []model.Sector, topN int, strong float64) []model.Sector {
	var flows []model.Sector
	for _, s := range sectors {
		if s.FlowNet.Valid {
			flows = append(flows, s)
		}
	}
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].FlowNet.Float64 > flows[j].FlowNet.Float64
	})
	out := ranked(flows, topN)
	for i := range out {
		out[i].FlowComment = FlowComment(out[i].FlowNet.Float64, strong)
	}
	return out
}

func ranked(sectors []model.Sector, topN int) []model.Sector {
	if len(sectors) > topN {
		sectors = sectors[:topN]
	}
	out := make([]model.Sector, len(sectors))
	for i, s := range sectors {
		s.Rank = i + 1
		s.ChangePct = roundNull(s.ChangePct)
		s.FlowNet = roundNull(s.FlowNet)
		out[i] = s
	}
	return out
}

// FlowComment describes a net fund flow against the strong-flow cut.
func FlowComment(flow, strong float64) string {
	switch {
	case flow > strong:
		return "Sustained inflow"
	case flow > 0:
		return "Buying on dips"
	case flow > -strong:
		return "Outflow"
	default:
		return "Heavy outflow"
	}
}
