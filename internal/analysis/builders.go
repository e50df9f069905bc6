package analysis

import (
	"math"

	"github.com/roach88/evsel/internal/collection"
	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/kinematics"
	"github.com/roach88/evsel/internal/random"
)

// NewLeptonCollection builds the graded lepton selection for one flavour.
//
// Loose: pt > loose_pt, |eta| < eta_max, id ≥ loose_id.
// Tight: loose and pt > tight_pt, id ≥ tight_id.
func NewLeptonCollection(name string, cur Cursor, f Flavour, opts config.LeptonOptions, copts ...collection.Option) *collection.Collection[Lepton] {
	return collection.New(name, cur, collection.Selector[Lepton]{
		Candidates: func() []Lepton {
			rec := cur.Record()
			if rec == nil {
				return nil
			}
			raws := rec.Electrons
			if f == Muon {
				raws = rec.Muons
			}
			out := make([]Lepton, len(raws))
			for i, raw := range raws {
				out[i] = newLepton(f, raw)
			}
			return out
		},
		Loose: func(l Lepton) bool {
			return l.p4.Pt() > opts.LoosePt &&
				math.Abs(l.p4.Eta()) < opts.EtaMax &&
				l.ID >= opts.LooseID
		},
		Tight: func(l Lepton) bool {
			return l.p4.Pt() > opts.TightPt && l.ID >= opts.TightID
		},
	}, copts...)
}

// NewJetCollection builds jets from the current record.
//
// When smear is non-nil each jet i is scaled by Gaus(i, 1, resolution)
// before the kinematic cuts; factors below zero are clamped to zero. Jets
// keep their unsmeared momentum as RawP4, so the collection reports the
// smearing through SumShift.
func NewJetCollection(name string, cur Cursor, opts config.JetOptions, smear *random.Generator, copts ...collection.Option) *collection.Collection[Jet] {
	copts = append([]collection.Option{collection.WithCleaningRadius(opts.CleaningRadius)}, copts...)
	return collection.New(name, cur, collection.Selector[Jet]{
		Candidates: func() []Jet {
			rec := cur.Record()
			if rec == nil {
				return nil
			}
			out := make([]Jet, len(rec.Jets))
			for i, rj := range rec.Jets {
				out[i] = smearJet(rj, i, opts.Resolution, smear)
			}
			return out
		},
		Loose: func(j Jet) bool {
			return j.p4.Pt() > opts.Pt && math.Abs(j.p4.Eta()) < opts.EtaMax
		},
	}, copts...)
}

func smearJet(rj event.RawJet, i int, resolution float64, smear *random.Generator) Jet {
	raw := kinematics.FromPtEtaPhiM(rj.Pt, rj.Eta, rj.Phi, rj.Mass)
	if smear == nil || resolution == 0 {
		return Jet{p4: raw, raw: raw}
	}
	factor := math.Max(smear.Gaus(i, 1, resolution), 0)
	return Jet{p4: raw.Scale(factor), raw: raw}
}
