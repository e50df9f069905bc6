package testutil

import (
	"math"

	"github.com/roach88/evsel/internal/event"
)

// Lepton returns a tight lepton candidate.
func Lepton(pt, eta, phi float64, charge int) event.RawLepton {
	return event.RawLepton{Pt: pt, Eta: eta, Phi: phi, Charge: charge, ID: 3}
}

// Jet returns a massless jet candidate.
func Jet(pt, eta, phi float64) event.RawJet {
	return event.RawJet{Pt: pt, Eta: eta, Phi: phi}
}

// ZMuMu returns a triggered record with two back-to-back 45 GeV muons at
// eta 0, giving a pair mass of exactly 90.
func ZMuMu(eventID uint64) event.Record {
	return event.Record{
		Run:     1,
		Lumi:    1,
		Event:   eventID,
		Trigger: true,
		Muons: []event.RawLepton{
			Lepton(45, 0, 0, 1),
			Lepton(45, 0, math.Pi, -1),
		},
		GenWeight:  1,
		TruePileup: 20,
	}
}

// ZEE is ZMuMu with electrons instead of muons.
func ZEE(eventID uint64) event.Record {
	rec := ZMuMu(eventID)
	rec.Electrons, rec.Muons = rec.Muons, nil
	return rec
}
