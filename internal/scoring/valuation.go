package scoring

import (
	"fmt"

	"github.com/guregu/null/v6"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// PE cut-offs for the valuation grade.
const (
	undervaluedPE = 15.0
	overvaluedPE  = 50.0
	// Peer PEs outside (0, peerPEMax) are treated as outliers.
	peerPEMax = 100.0
)

// Grades against the peer mean.
const (
	relativeCheap   = 0.8
	relativeDear    = 1.2
	industryCheap   = 0.7
	industryTooDear = 1.5
)

// Valuation grades fund by its own PE and, when peers carry a usable PE,
// against the peers' mean PE. The stock itself is never counted as a peer.
// A nil fund yields the zero Valuation.
func Valuation(fund *model.Fundamentals, peers []*model.Fundamentals) model.Valuation {
	if fund == nil {
		return model.Valuation{}
	}
	v := model.Valuation{Level: model.FairlyValued, PE: fund.PE, PB: fund.PB}

	pe := fund.PE
	if pe.Valid {
		switch {
		case pe.Float64 < undervaluedPE:
			v.Level = model.Undervalued
			v.Reasons = append(v.Reasons, fmt.Sprintf("PE %.1f is low", pe.Float64))
		case pe.Float64 > overvaluedPE:
			v.Level = model.Overvalued
			v.Reasons = append(v.Reasons, fmt.Sprintf("PE %.1f is high", pe.Float64))
		}
	}

	pes := peerPEs(fund.Symbol, peers)
	if pe.Valid && len(pes) > 0 {
		mean, below := 0.0, 0
		for _, p := range pes {
			mean += p
			if p < pe.Float64 {
				below++
			}
		}
		mean /= float64(len(pes))

		v.IndustryPE = null.FloatFrom(calculator.Round(mean, 2))
		v.Peers = len(pes)
		v.Percentile = null.FloatFrom(calculator.Round(float64(below)/float64(len(pes)+1)*100, 1))

		switch {
		case pe.Float64 < mean*relativeCheap:
			v.Relative = model.Undervalued
		case pe.Float64 > mean*relativeDear:
			v.Relative = model.Overvalued
		default:
			v.Relative = model.FairlyValued
		}

		switch ratio := pe.Float64 / mean; {
		case ratio < industryCheap:
			v.Reasons = append(v.Reasons, fmt.Sprintf("below the industry average of %.1f", mean))
		case ratio > industryTooDear:
			v.Reasons = append(v.Reasons, fmt.Sprintf("well above the industry average of %.1f", mean))
		}
	}

	if len(v.Reasons) == 0 {
		v.Reasons = []string{"fairly valued"}
	}
	return v
}

func peerPEs(symbol string, peers []*model.Fundamentals) []float64 {
	var out []float64
	for _, p := range peers {
		if p == nil || p.Symbol == symbol || !p.PE.Valid {
			continue
		}
		if pe := p.PE.Float64; pe > 0 && pe < peerPEMax {
			out = append(out, pe)
		}
	}
	return out
}
