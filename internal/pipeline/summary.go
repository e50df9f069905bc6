package pipeline

import (
	"github.com/roach88/evsel/internal/analysis"
	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/store"
	"github.com/roach88/evsel/internal/weight"
)

// Summary is the result of one run.
type Summary struct {
	RunID      string `json:"run_id"`
	Dataset    string `json:"dataset"`
	Simulation bool   `json:"simulation"`
	ConfigHash string `json:"config_hash"`
	Syst       string `json:"syst"`

	EventsRead     int64 `json:"events_read"`
	EventsSelected int64 `json:"events_selected"`

	Cutflow []CutflowStep `json:"cutflow"`

	// WeightSum is Σ NominalWeight over selected events; DefaultWeightSum
	// is Σ DefaultWeight.
	WeightSum        float64 `json:"weight_sum"`
	DefaultWeightSum float64 `json:"default_weight_sum"`

	// Variations holds Σ NominalWeight × RelWeight(i) for every variation.
	Variations []VariationSum `json:"variations"`
}

// CutflowStep is the number of records passing one filter.
type CutflowStep struct {
	Filter string `json:"filter"`
	Passed uint64 `json:"passed"`
}

// VariationSum is the weighted yield under one variation.
type VariationSum struct {
	Index     int     `json:"index"`
	Component string  `json:"component"`
	Name      string  `json:"name"`
	Sum       float64 `json:"sum"`
}

func newSummary(runID string, ds *event.Dataset, hash, syst string, filters []analysis.Filter, vars []weight.Variation) Summary {
	s := Summary{
		RunID:      runID,
		Dataset:    ds.Name,
		Simulation: ds.Simulation,
		ConfigHash: hash,
		Syst:       syst,
		Cutflow:    make([]CutflowStep, len(filters)),
		Variations: make([]VariationSum, len(vars)),
	}
	for i, f := range filters {
		s.Cutflow[i].Filter = f.Name()
	}
	for i, v := range vars {
		s.Variations[i] = VariationSum{Index: v.Index, Component: v.Component, Name: v.Name}
	}
	return s
}

func (s *Summary) add(ev store.Event) {
	s.EventsSelected++
	s.WeightSum += ev.NominalWeight
	s.DefaultWeightSum += ev.DefaultWeight
	for i, rel := range ev.RelWeights {
		s.Variations[i].Sum += ev.NominalWeight * rel
	}
}
