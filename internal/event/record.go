package event

// RawLepton is an uncalibrated electron or muon candidate as stored in the
// input stream.
type RawLepton struct {
	Pt     float64 `yaml:"pt"`
	Eta    float64 `yaml:"eta"`
	Phi    float64 `yaml:"phi"`
	Mass   float64 `yaml:"mass,omitempty"`
	Charge int     `yaml:"charge"`

	// ID is the identification working point the candidate satisfies:
	// 0 none, 1 loose, 2 medium, 3 tight.
	ID int `yaml:"id"`
}

// RawJet is an uncalibrated jet candidate.
type RawJet struct {
	Pt   float64 `yaml:"pt"`
	Eta  float64 `yaml:"eta"`
	Phi  float64 `yaml:"phi"`
	Mass float64 `yaml:"mass"`
}

// RawPtMiss is the uncorrected missing transverse momentum.
type RawPtMiss struct {
	Pt  float64 `yaml:"pt"`
	Phi float64 `yaml:"phi"`
}

// Record holds every field the analysis reads for one event.
type Record struct {
	Run   uint32 `yaml:"run"`
	Lumi  uint32 `yaml:"lumi"`
	Event uint64 `yaml:"event"`

	Trigger bool `yaml:"trigger"`

	Electrons []RawLepton `yaml:"electrons,omitempty"`
	Muons     []RawLepton `yaml:"muons,omitempty"`
	Jets      []RawJet    `yaml:"jets,omitempty"`
	PtMiss    RawPtMiss   `yaml:"ptmiss"`

	// GenWeight is the generator-level event weight. Simulation only.
	GenWeight float64 `yaml:"gen_weight,omitempty"`

	// ScaleWeights are matrix-element scale weights relative to GenWeight,
	// ordered renorm up, renorm down, factor up, factor down. Either empty
	// or of length 4.
	ScaleWeights []float64 `yaml:"scale_weights,omitempty"`

	// TruePileup is the expected number of pile-up interactions.
	// Simulation only.
	TruePileup float64 `yaml:"true_pileup,omitempty"`
}
