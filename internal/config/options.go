package config

import (
	"errors"
	"fmt"
)

// Options is the full analysis configuration.
type Options struct {
	// Syst names the globally requested systematic variation, e.g.
	// "pileup_up". Empty selects nominal weights.
	Syst string `json:"syst" yaml:"syst" toml:"syst"`

	Random    RandomOptions    `json:"random" yaml:"random" toml:"random"`
	Electrons LeptonOptions    `json:"electrons" yaml:"electrons" toml:"electrons"`
	Muons     LeptonOptions    `json:"muons" yaml:"muons" toml:"muons"`
	Jets      JetOptions       `json:"jets" yaml:"jets" toml:"jets"`
	Selection SelectionOptions `json:"selection" yaml:"selection" toml:"selection"`

	Pileup           *BinnedOptions  `json:"pileup,omitempty" yaml:"pileup,omitempty" toml:"pileup,omitempty"`
	LeptonEfficiency *BinnedOptions  `json:"lepton_efficiency,omitempty" yaml:"lepton_efficiency,omitempty" toml:"lepton_efficiency,omitempty"`
	KFactor          *KFactorOptions `json:"kfactor,omitempty" yaml:"kfactor,omitempty" toml:"kfactor,omitempty"`
}

// RandomOptions configures the shared random table.
type RandomOptions struct {
	Seed      int64 `json:"seed" yaml:"seed" toml:"seed"`
	TableSize int   `json:"table_size" yaml:"table_size" toml:"table_size"`
}

// LeptonOptions configures the graded lepton selection.
type LeptonOptions struct {
	LoosePt float64 `json:"loose_pt" yaml:"loose_pt" toml:"loose_pt"`
	TightPt float64 `json:"tight_pt" yaml:"tight_pt" toml:"tight_pt"`
	EtaMax  float64 `json:"eta_max" yaml:"eta_max" toml:"eta_max"`
	LooseID int     `json:"loose_id" yaml:"loose_id" toml:"loose_id"`
	TightID int     `json:"tight_id" yaml:"tight_id" toml:"tight_id"`
}

// JetOptions configures jet selection, cleaning and smearing.
type JetOptions struct {
	Pt             float64 `json:"pt" yaml:"pt" toml:"pt"`
	EtaMax         float64 `json:"eta_max" yaml:"eta_max" toml:"eta_max"`
	CleaningRadius float64 `json:"cleaning_radius" yaml:"cleaning_radius" toml:"cleaning_radius"`

	// Resolution is the relative energy resolution used for smearing in
	// simulation. Zero disables smearing.
	Resolution float64 `json:"resolution" yaml:"resolution" toml:"resolution"`

	// SmearingChannels is the number of random channels registered for
	// smearing. Jets beyond it reuse channels.
	SmearingChannels int `json:"smearing_channels" yaml:"smearing_channels" toml:"smearing_channels"`
}

// SelectionOptions configures the event filters.
type SelectionOptions struct {
	// TriggerEfficiency is the probability with which a simulated event
	// that fired the trigger is kept.
	TriggerEfficiency float64 `json:"trigger_efficiency" yaml:"trigger_efficiency" toml:"trigger_efficiency"`

	ZMass     float64 `json:"z_mass" yaml:"z_mass" toml:"z_mass"`
	ZWindow   float64 `json:"z_window" yaml:"z_window" toml:"z_window"`
	PtMissMin float64 `json:"ptmiss_min" yaml:"ptmiss_min" toml:"ptmiss_min"`
}

// BinnedOptions is a one-dimensional table of weights with up/down
// alternatives. len(Nominal) == len(Up) == len(Down) == len(Edges)-1.
// Values outside the edges use the first or last bin.
type BinnedOptions struct {
	Edges   []float64 `json:"edges" yaml:"edges" toml:"edges"`
	Nominal []float64 `json:"nominal" yaml:"nominal" toml:"nominal"`
	Up      []float64 `json:"up" yaml:"up" toml:"up"`
	Down    []float64 `json:"down" yaml:"down" toml:"down"`
}

// KFactorOptions is a constant normalization correction.
type KFactorOptions struct {
	Value       float64 `json:"value" yaml:"value" toml:"value"`
	Uncertainty float64 `json:"uncertainty" yaml:"uncertainty" toml:"uncertainty"`
}

// Default returns the options used when a file omits a section.
func Default() Options {
	return Options{
		Random: RandomOptions{
			Seed:      4357,
			TableSize: 100000,
		},
		Electrons: LeptonOptions{LoosePt: 10, TightPt: 25, EtaMax: 2.5, LooseID: 1, TightID: 3},
		Muons:     LeptonOptions{LoosePt: 10, TightPt: 25, EtaMax: 2.4, LooseID: 1, TightID: 3},
		Jets: JetOptions{
			Pt:               30,
			EtaMax:           4.7,
			CleaningRadius:   0.4,
			Resolution:       0.1,
			SmearingChannels: 8,
		},
		Selection: SelectionOptions{
			TriggerEfficiency: 1,
			ZMass:             91.1876,
			ZWindow:           15,
			PtMissMin:         0,
		},
	}
}

// Validate checks the options and returns every problem found, joined.
func (o *Options) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if o.Random.TableSize < 1 {
		add("random.table_size must be positive, got %d", o.Random.TableSize)
	}
	leptons := []struct {
		name string
		opts LeptonOptions
	}{{"electrons", o.Electrons}, {"muons", o.Muons}}
	for _, lep := range leptons {
		name, l := lep.name, lep.opts
		if l.EtaMax <= 0 {
			add("%s.eta_max must be positive", name)
		}
		if l.TightPt < l.LoosePt {
			add("%s.tight_pt (%g) below loose_pt (%g)", name, l.TightPt, l.LoosePt)
		}
		if l.TightID < l.LooseID {
			add("%s.tight_id (%d) below loose_id (%d)", name, l.TightID, l.LooseID)
		}
	}
	if o.Jets.EtaMax <= 0 {
		add("jets.eta_max must be positive")
	}
	if o.Jets.CleaningRadius < 0 {
		add("jets.cleaning_radius must not be negative")
	}
	if o.Jets.Resolution < 0 {
		add("jets.resolution must not be negative")
	}
	if o.Jets.SmearingChannels < 1 {
		add("jets.smearing_channels must be at least 1, got %d", o.Jets.SmearingChannels)
	}
	if e := o.Selection.TriggerEfficiency; e < 0 || e > 1 {
		add("selection.trigger_efficiency must be in [0, 1], got %g", e)
	}
	if o.Selection.ZWindow <= 0 {
		add("selection.z_window must be positive")
	}
	if o.Pileup != nil {
		if err := o.Pileup.validate(); err != nil {
			add("pileup: %w", err)
		}
	}
	if o.LeptonEfficiency != nil {
		if err := o.LeptonEfficiency.validate(); err != nil {
			add("lepton_efficiency: %w", err)
		}
	}
	if o.KFactor != nil {
		if o.KFactor.Value <= 0 {
			add("kfactor.value must be positive")
		}
		if o.KFactor.Uncertainty < 0 {
			add("kfactor.uncertainty must not be negative")
		}
	}

	return errors.Join(errs...)
}

func (b *BinnedOptions) validate() error {
	if len(b.Edges) < 2 {
		return fmt.Errorf("at least two edges required, got %d", len(b.Edges))
	}
	for i := 1; i < len(b.Edges); i++ {
		if b.Edges[i] <= b.Edges[i-1] {
			return fmt.Errorf("edges must be strictly increasing at index %d", i)
		}
	}
	bins := len(b.Edges) - 1
	if len(b.Nominal) != bins {
		return fmt.Errorf("nominal has %d values for %d bins", len(b.Nominal), bins)
	}
	if len(b.Up) != bins {
		return fmt.Errorf("up has %d values for %d bins", len(b.Up), bins)
	}
	if len(b.Down) != bins {
		return fmt.Errorf("down has %d values for %d bins", len(b.Down), bins)
	}
	for i, v := range b.Nominal {
		if v <= 0 {
			return fmt.Errorf("nominal[%d] must be positive", i)
		}
	}
	return nil
}
