package analysis

import (
	"math"

	"github.com/roach88/evsel/internal/collection"
	"github.com/roach88/evsel/internal/kinematics"
	"github.com/roach88/evsel/internal/random"
)

// Filter is one step of the event selection.
type Filter interface {
	Name() string

	// Pass reports whether the current record survives this step.
	Pass() bool
}

// TriggerFilter requires the trigger bit. In simulation the decision is
// additionally thinned with probability efficiency using its own random
// channel, so the same event is always kept or dropped the same way.
type TriggerFilter struct {
	cur        Cursor
	gen        *random.Generator
	efficiency float64
}

// NewTriggerFilter creates the trigger step. gen may be nil for real data.
func NewTriggerFilter(cur Cursor, gen *random.Generator, efficiency float64) *TriggerFilter {
	return &TriggerFilter{cur: cur, gen: gen, efficiency: efficiency}
}

// Name implements Filter.
func (f *TriggerFilter) Name() string { return "trigger" }

// Pass reports whether the trigger fired and, in simulation, survived
// the efficiency thinning.
func (f *TriggerFilter) Pass() bool {
	rec := f.cur.Record()
	if rec == nil || !rec.Trigger {
		return false
	}
	if !f.cur.Simulation() || f.gen == nil || f.efficiency >= 1 {
		return true
	}
	return f.gen.Rndm(0) < f.efficiency
}

// DileptonFilter selects events with exactly two tight leptons of the same
// flavour, no further loose lepton of either flavour, and a pair mass
// inside the Z window.
type DileptonFilter struct {
	electrons *collection.Collection[Lepton]
	muons     *collection.Collection[Lepton]
	zMass     float64
	window    float64
}

// NewDileptonFilter creates the dilepton step.
func NewDileptonFilter(electrons, muons *collection.Collection[Lepton], zMass, window float64) *DileptonFilter {
	return &DileptonFilter{electrons: electrons, muons: muons, zMass: zMass, window: window}
}

// Name implements Filter.
func (f *DileptonFilter) Name() string { return "dilepton" }

// Pair returns the dilepton four-momentum when the event has exactly two
// tight same-flavour leptons and no other loose lepton.
func (f *DileptonFilter) Pair() (kinematics.Vector, bool) {
	loose := len(f.electrons.GetLoose()) + len(f.muons.GetLoose())
	if loose != 2 {
		return kinematics.Vector{}, false
	}
	for _, c := range []*collection.Collection[Lepton]{f.electrons, f.muons} {
		if tight := c.Get(); len(tight) == 2 {
			return tight[0].P4().Add(tight[1].P4()), true
		}
	}
	return kinematics.Vector{}, false
}

// Pass reports whether the pair exists and its mass lies inside the Z
// window.
func (f *DileptonFilter) Pass() bool {
	pair, ok := f.Pair()
	if !ok {
		return false
	}
	return math.Abs(pair.M()-f.zMass) < f.window
}

// PtMissFilter requires corrected missing momentum of at least min.
type PtMissFilter struct {
	ptmiss *PtMiss
	min    float64
}

// NewPtMissFilter creates the missing momentum step.
func NewPtMissFilter(ptmiss *PtMiss, min float64) *PtMissFilter {
	return &PtMissFilter{ptmiss: ptmiss, min: min}
}

// Name implements Filter.
func (f *PtMissFilter) Name() string { return "ptmiss" }

// Pass reports whether the corrected missing momentum reaches the
// threshold.
func (f *PtMissFilter) Pass() bool {
	return f.ptmiss.Pt() >= f.min
}
