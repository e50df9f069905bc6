// Package kinematics provides the four-momentum arithmetic needed by derived
// collections: construction from (pt, eta, phi, m), sums, invariant mass and
// the angular distance used for cleaning.
package kinematics

import "math"

// Vector is a four-momentum in Cartesian components.
type Vector struct {
	Px, Py, Pz, E float64
}

// FromPtEtaPhiM builds a Vector from collider coordinates.
func FromPtEtaPhiM(pt, eta, phi, m float64) Vector {
	px := pt * math.Cos(phi)
	py := pt * math.Sin(phi)
	pz := pt * math.Sinh(eta)
	p2 := px*px + py*py + pz*pz
	return Vector{Px: px, Py: py, Pz: pz, E: math.Sqrt(p2 + m*m)}
}

// FromPtPhi builds a massless transverse vector.
func FromPtPhi(pt, phi float64) Vector {
	return Vector{Px: pt * math.Cos(phi), Py: pt * math.Sin(phi), E: pt}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{Px: v.Px + o.Px, Py: v.Py + o.Py, Pz: v.Pz + o.Pz, E: v.E + o.E}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{Px: v.Px - o.Px, Py: v.Py - o.Py, Pz: v.Pz - o.Pz, E: v.E - o.E}
}

// Scale returns v multiplied by f.
func (v Vector) Scale(f float64) Vector {
	return Vector{Px: v.Px * f, Py: v.Py * f, Pz: v.Pz * f, E: v.E * f}
}

// Pt returns the transverse momentum.
func (v Vector) Pt() float64 {
	return math.Hypot(v.Px, v.Py)
}

// Phi returns the azimuth in (-π, π].
func (v Vector) Phi() float64 {
	if v.Px == 0 && v.Py == 0 {
		return 0
	}
	return math.Atan2(v.Py, v.Px)
}

// Eta returns the pseudorapidity. A vector along the beam axis returns ±Inf.
func (v Vector) Eta() float64 {
	pt := v.Pt()
	if pt == 0 {
		switch {
		case v.Pz > 0:
			return math.Inf(1)
		case v.Pz < 0:
			return math.Inf(-1)
		}
		return 0
	}
	return math.Asinh(v.Pz / pt)
}

// M returns the invariant mass. Slightly negative m² from rounding is
// reported as zero.
func (v Vector) M() float64 {
	m2 := v.E*v.E - v.Px*v.Px - v.Py*v.Py - v.Pz*v.Pz
	if m2 <= 0 {
		return 0
	}
	return math.Sqrt(m2)
}

// Sum adds all vectors.
func Sum(vs ...Vector) Vector {
	var out Vector
	for _, v := range vs {
		out = out.Add(v)
	}
	return out
}

// DeltaPhi returns the azimuthal difference wrapped into [-π, π].
func DeltaPhi(phi1, phi2 float64) float64 {
	d := math.Mod(phi1-phi2, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d < -math.Pi:
		d += 2 * math.Pi
	}
	return d
}

// DeltaR2 returns the squared angular distance Δη² + Δφ².
func DeltaR2(eta1, phi1, eta2, phi2 float64) float64 {
	deta := eta1 - eta2
	dphi := DeltaPhi(phi1, phi2)
	return deta*deta + dphi*dphi
}
