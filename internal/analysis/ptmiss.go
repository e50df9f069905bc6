package analysis

import (
	"github.com/roach88/evsel/internal/cache"
	"github.com/roach88/evsel/internal/collection"
	"github.com/roach88/evsel/internal/kinematics"
)

// PtMiss is the missing transverse momentum corrected for the calibration
// of every registered momentum source. It never needs to know the concrete
// object types behind the sources.
type PtMiss struct {
	value   *cache.Lazy[kinematics.Vector]
	sources []collection.MomentumSource
}

// NewPtMiss creates the corrected missing momentum.
func NewPtMiss(cur Cursor, sources ...collection.MomentumSource) *PtMiss {
	m := &PtMiss{sources: sources}
	m.value = cache.NewLazy(cur, func() kinematics.Vector {
		rec := cur.Record()
		if rec == nil {
			return kinematics.Vector{}
		}
		v := kinematics.FromPtPhi(rec.PtMiss.Pt, rec.PtMiss.Phi)
		for _, s := range m.sources {
			v = v.Sub(s.SumShift())
		}
		return kinematics.Vector{Px: v.Px, Py: v.Py}
	})
	return m
}

// P4 returns the corrected transverse vector for the current record.
func (m *PtMiss) P4() kinematics.Vector {
	return m.value.Get()
}

// Pt returns the magnitude of the corrected vector.
func (m *PtMiss) Pt() float64 {
	return m.P4().Pt()
}

// Sources returns the names of the momentum sources, in order.
func (m *PtMiss) Sources() []string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return names
}
