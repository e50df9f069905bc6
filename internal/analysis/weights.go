package analysis

import (
	"math"

	"github.com/roach88/evsel/internal/cache"
	"github.com/roach88/evsel/internal/collection"
	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/weight"
)

// The number of variations of each component is fixed at construction and
// never depends on the record, so global variation indices stay stable
// across the run.

var (
	meRenorm   = weight.UpDown("me_renorm")
	meFactor   = weight.UpDown("me_factor")
	pileupVars = weight.UpDown("pileup")
	leptonVars = weight.UpDown("lepton_eff")
	kfactVars  = weight.UpDown("kfactor")
)

// GenWeight is the signed generator weight with matrix-element scale
// variations. Real data gets weight 1 and no variations.
type GenWeight struct {
	cur   Cursor
	syst  string
	names []string
}

// NewGenWeight creates the generator weight component.
func NewGenWeight(cur Cursor, syst string) *GenWeight {
	w := &GenWeight{cur: cur, syst: syst}
	if cur.Simulation() {
		w.names = []string{meRenorm[0], meRenorm[1], meFactor[0], meFactor[1]}
	}
	return w
}

// Name implements weight.Component.
func (w *GenWeight) Name() string { return "gen_weight" }

// NominalWeight returns the record's generator weight, or 1 for real data.
func (w *GenWeight) NominalWeight() float64 {
	rec := w.cur.Record()
	if rec == nil || !w.cur.Simulation() {
		return 1
	}
	return rec.GenWeight
}

// NumVariations returns 4 in simulation and 0 otherwise.
func (w *GenWeight) NumVariations() int { return len(w.names) }

// DefaultWeight applies the configured systematic to the nominal weight.
func (w *GenWeight) DefaultWeight() float64 { return weight.ApplySyst(w, w.syst) }

// RelWeight returns the stored scale weight, or 1 when the record carries
// none.
func (w *GenWeight) RelWeight(i int) float64 {
	weight.CheckIndex(w.Name(), i, len(w.names))
	rec := w.cur.Record()
	if rec == nil || len(rec.ScaleWeights) != len(w.names) {
		return 1
	}
	return rec.ScaleWeights[i]
}

// VariationName returns the name of scale variation i.
func (w *GenWeight) VariationName(i int) string {
	weight.CheckIndex(w.Name(), i, len(w.names))
	return w.names[i]
}

// PileupWeight reweights the expected number of pile-up interactions.
type PileupWeight struct {
	cur   Cursor
	syst  string
	table *binned
}

// NewPileupWeight creates the pile-up component. A nil table or real data
// yields weight 1 and no variations.
func NewPileupWeight(cur Cursor, syst string, opts *config.BinnedOptions) *PileupWeight {
	w := &PileupWeight{cur: cur, syst: syst}
	if cur.Simulation() {
		w.table = newBinned(opts)
	}
	return w
}

// Name implements weight.Component.
func (w *PileupWeight) Name() string { return "pileup" }

func (w *PileupWeight) values() (nom, up, down float64) {
	rec := w.cur.Record()
	if w.table == nil || rec == nil {
		return 1, 1, 1
	}
	return w.table.lookup(rec.TruePileup)
}

// NominalWeight returns the table value for the record's true pile-up.
func (w *PileupWeight) NominalWeight() float64 {
	nom, _, _ := w.values()
	return nom
}

// NumVariations returns 2 when a table is configured.
func (w *PileupWeight) NumVariations() int {
	if w.table == nil {
		return 0
	}
	return 2
}

// DefaultWeight applies the configured systematic to the nominal weight.
func (w *PileupWeight) DefaultWeight() float64 { return weight.ApplySyst(w, w.syst) }

// RelWeight returns the up (0) or down (1) value relative to nominal.
func (w *PileupWeight) RelWeight(i int) float64 {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	nom, up, down := w.values()
	if i == 0 {
		return up / nom
	}
	return down / nom
}

// VariationName returns pileup_up or pileup_down.
func (w *PileupWeight) VariationName(i int) string {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	return pileupVars[i]
}

// leptonSF is the product of per-lepton scale factors for one record.
type leptonSF struct {
	nom, up, down float64
}

// LeptonEfficiency is the product of binned |eta| scale factors over the
// tight leptons of both flavours. The product is computed once per record.
type LeptonEfficiency struct {
	syst  string
	table *binned
	sf    *cache.Lazy[leptonSF]
}

// NewLeptonEfficiency creates the lepton efficiency component. A nil table
// or real data yields weight 1 and no variations.
func NewLeptonEfficiency(cur Cursor, syst string, opts *config.BinnedOptions, leptons ...*collection.Collection[Lepton]) *LeptonEfficiency {
	w := &LeptonEfficiency{syst: syst}
	if cur.Simulation() {
		w.table = newBinned(opts)
	}
	w.sf = cache.NewLazy(cur, func() leptonSF {
		sf := leptonSF{nom: 1, up: 1, down: 1}
		if w.table == nil {
			return sf
		}
		for _, c := range leptons {
			for _, l := range c.Get() {
				nom, up, down := w.table.lookup(math.Abs(l.P4().Eta()))
				sf.nom *= nom
				sf.up *= up
				sf.down *= down
			}
		}
		return sf
	})
	return w
}

// Name implements weight.Component.
func (w *LeptonEfficiency) Name() string { return "lepton_efficiency" }

// NominalWeight returns the product of the tight lepton scale factors.
func (w *LeptonEfficiency) NominalWeight() float64 { return w.sf.Get().nom }

// NumVariations returns 2 when a table is configured.
func (w *LeptonEfficiency) NumVariations() int {
	if w.table == nil {
		return 0
	}
	return 2
}

// DefaultWeight applies the configured systematic to the nominal weight.
func (w *LeptonEfficiency) DefaultWeight() float64 { return weight.ApplySyst(w, w.syst) }

// RelWeight returns the up (0) or down (1) product relative to nominal.
func (w *LeptonEfficiency) RelWeight(i int) float64 {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	sf := w.sf.Get()
	if i == 0 {
		return sf.up / sf.nom
	}
	return sf.down / sf.nom
}

// VariationName returns lepton_eff_up or lepton_eff_down.
func (w *LeptonEfficiency) VariationName(i int) string {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	return leptonVars[i]
}

// KFactor is a constant normalization correction. It has an up/down pair
// only when an uncertainty is configured.
type KFactor struct {
	syst        string
	value       float64
	uncertainty float64
}

// NewKFactor creates the k-factor component. A nil config or real data
// yields weight 1 and no variations.
func NewKFactor(cur Cursor, syst string, opts *config.KFactorOptions) *KFactor {
	w := &KFactor{syst: syst, value: 1}
	if opts != nil && cur.Simulation() {
		w.value = opts.Value
		w.uncertainty = opts.Uncertainty
	}
	return w
}

// Name implements weight.Component.
func (w *KFactor) Name() string { return "kfactor" }

// NominalWeight returns the configured k-factor.
func (w *KFactor) NominalWeight() float64 { return w.value }

// NumVariations returns 2 when an uncertainty is configured.
func (w *KFactor) NumVariations() int {
	if w.uncertainty == 0 {
		return 0
	}
	return 2
}

// DefaultWeight applies the configured systematic to the nominal weight.
func (w *KFactor) DefaultWeight() float64 { return weight.ApplySyst(w, w.syst) }

// RelWeight returns (value ± uncertainty) / value for up (0) and down (1).
func (w *KFactor) RelWeight(i int) float64 {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	if i == 0 {
		return (w.value + w.uncertainty) / w.value
	}
	return (w.value - w.uncertainty) / w.value
}

// VariationName returns kfactor_up or kfactor_down.
func (w *KFactor) VariationName(i int) string {
	weight.CheckIndex(w.Name(), i, w.NumVariations())
	return kfactVars[i]
}
