package analysis

import (
	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/kinematics"
)

// Cursor is the view of the record stream the analysis reads.
// Implemented by event.SliceCursor.
type Cursor interface {
	Position() event.Position
	Record() *event.Record
	EventID() uint64
	Simulation() bool
}

// Flavour distinguishes electrons from muons.
type Flavour int

const (
	Electron Flavour = iota + 1
	Muon
)

// String returns "electron" or "muon".
func (f Flavour) String() string {
	switch f {
	case Electron:
		return "electron"
	case Muon:
		return "muon"
	default:
		return "unknown"
	}
}

// Lepton is a selected electron or muon.
type Lepton struct {
	Flavour Flavour
	Charge  int
	ID      int
	p4      kinematics.Vector
}

// P4 implements collection.Object.
func (l Lepton) P4() kinematics.Vector {
	return l.p4
}

func newLepton(f Flavour, raw event.RawLepton) Lepton {
	return Lepton{
		Flavour: f,
		Charge:  raw.Charge,
		ID:      raw.ID,
		p4:      kinematics.FromPtEtaPhiM(raw.Pt, raw.Eta, raw.Phi, raw.Mass),
	}
}

// Jet is a calibrated jet. RawP4 is the momentum before smearing.
type Jet struct {
	p4  kinematics.Vector
	raw kinematics.Vector
}

// P4 implements collection.Object.
func (j Jet) P4() kinematics.Vector {
	return j.p4
}

// RawP4 implements collection.Calibrated.
func (j Jet) RawP4() kinematics.Vector {
	return j.raw
}
