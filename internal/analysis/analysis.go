package analysis

import (
	"fmt"
	"log/slog"

	"github.com/roach88/evsel/internal/collection"
	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/random"
	"github.com/roach88/evsel/internal/weight"
)

// Random channel consumers registered by New, in registration order.
const (
	ChannelTrigger     = "trigger"
	ChannelJetSmearing = "jet_smearing"
)

// Option configures New.
type Option func(*settings)

type settings struct {
	logger  *slog.Logger
	onBuild func(name string)
}

// WithLogger sets the logger used during setup.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithBuildHook is called with the collection name after every rebuild.
func WithBuildHook(fn func(name string)) Option {
	return func(s *settings) {
		s.onBuild = fn
	}
}

// Analysis holds every per-record component of the selection.
type Analysis struct {
	opts config.Options

	engine *random.Engine

	electrons *collection.Collection[Lepton]
	muons     *collection.Collection[Lepton]
	jets      *collection.Collection[Jet]
	ptmiss    *PtMiss
	dilepton  *DileptonFilter

	filters []Filter
	weight  *weight.Composite
}

// New assembles the analysis for the records delivered by cur.
//
// Returns a *protocol.ProtocolError for contract violations detected during
// setup (duplicate channel names, cleaning cycles) and a plain error for
// invalid options.
func New(opts config.Options, cur Cursor, options ...Option) (*Analysis, error) {
	s := settings{logger: slog.Default()}
	for _, opt := range options {
		opt(&s)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Registration phase.
	space := random.NewSpace()
	trigAlloc, err := space.Register(ChannelTrigger, 1)
	if err != nil {
		return nil, err
	}
	smearAlloc, err := space.Register(ChannelJetSmearing, opts.Jets.SmearingChannels)
	if err != nil {
		return nil, err
	}

	// Run phase. Generators exist before any collection is built, so the
	// jet builder can capture its generator.
	engine, err := space.Seal(cur,
		random.WithSeed(opts.Random.Seed),
		random.WithTableSize(opts.Random.TableSize))
	if err != nil {
		return nil, err
	}
	trigGen := engine.MustGenerator(trigAlloc)
	var smearGen *random.Generator
	if cur.Simulation() {
		smearGen = engine.MustGenerator(smearAlloc)
	}
	for _, alloc := range space.Allocations() {
		s.logger.Debug("random channels allocated",
			"consumer", alloc.Name,
			"channels", alloc.Channels())
	}

	var copts []collection.Option
	if s.onBuild != nil {
		copts = append(copts, collection.WithBuildHook(s.onBuild))
	}

	a := &Analysis{opts: opts, engine: engine}
	a.muons = NewLeptonCollection("muons", cur, Muon, opts.Muons, copts...)
	a.electrons = NewLeptonCollection("electrons", cur, Electron, opts.Electrons, copts...)
	a.jets = NewJetCollection("jets", cur, opts.Jets, smearGen, copts...)

	if err := a.electrons.EnableCleaning(a.muons); err != nil {
		return nil, err
	}
	if err := a.jets.EnableCleaning(a.electrons, a.muons); err != nil {
		return nil, err
	}
	order, err := a.BuildOrder()
	if err != nil {
		return nil, err
	}

	a.ptmiss = NewPtMiss(cur, a.electrons, a.muons, a.jets)
	a.dilepton = NewDileptonFilter(a.electrons, a.muons, opts.Selection.ZMass, opts.Selection.ZWindow)
	a.filters = []Filter{
		NewTriggerFilter(cur, trigGen, opts.Selection.TriggerEfficiency),
		a.dilepton,
		NewPtMissFilter(a.ptmiss, opts.Selection.PtMissMin),
	}

	a.weight = weight.NewComposite(
		NewGenWeight(cur, opts.Syst),
		NewPileupWeight(cur, opts.Syst, opts.Pileup),
		NewLeptonEfficiency(cur, opts.Syst, opts.LeptonEfficiency, a.electrons, a.muons),
		NewKFactor(cur, opts.Syst, opts.KFactor),
	)

	if opts.Syst != "" && !a.knowsVariation(opts.Syst) {
		s.logger.Warn("requested systematic matches no weight variation; using nominal weights",
			"syst", opts.Syst,
			"variations", a.weight.NumVariations())
	}
	for _, c := range a.weight.Components() {
		s.logger.Debug("weight component",
			"name", weight.ComponentName(c),
			"variations", c.NumVariations())
	}
	s.logger.Debug("analysis ready",
		"channels", engine.Width(),
		"table_size", engine.TableSize(),
		"build_order", order,
		"ptmiss_sources", a.ptmiss.Sources(),
		"variations", a.weight.NumVariations(),
		"simulation", cur.Simulation())

	return a, nil
}

func (a *Analysis) knowsVariation(name string) bool {
	for _, v := range a.weight.Variations() {
		if v.Name == name {
			return true
		}
	}
	return false
}

// BuildOrder returns the collection names so that every collection follows
// those it is cleaned against. Returns a DEPENDENCY_CYCLE error if the
// cleaning dependencies are not acyclic.
func (a *Analysis) BuildOrder() ([]string, error) {
	return collection.TopologicalOrder(a.electrons, a.muons, a.jets)
}

// Filters returns the selection steps in evaluation order.
func (a *Analysis) Filters() []Filter {
	return a.filters
}

// Select evaluates the filters in order and stops at the first failure.
// Returns the number of filters passed and whether all passed.
func (a *Analysis) Select() (passed int, ok bool) {
	for _, f := range a.filters {
		if !f.Pass() {
			return passed, false
		}
		passed++
	}
	return passed, true
}

// Weight returns the composite event weight.
func (a *Analysis) Weight() *weight.Composite {
	return a.weight
}

// Engine returns the sealed random engine.
func (a *Analysis) Engine() *random.Engine {
	return a.engine
}

// Options returns the options the analysis was built from.
func (a *Analysis) Options() config.Options {
	return a.opts
}

// Electrons returns the electron collection, cleaned against muons.
func (a *Analysis) Electrons() *collection.Collection[Lepton] { return a.electrons }

// Muons returns the muon collection.
func (a *Analysis) Muons() *collection.Collection[Lepton] { return a.muons }

// Jets returns the jet collection, cleaned against both lepton flavours.
func (a *Analysis) Jets() *collection.Collection[Jet] { return a.jets }

// PtMiss returns the corrected missing transverse momentum.
func (a *Analysis) PtMiss() *PtMiss { return a.ptmiss }

// Dilepton returns the dilepton selection step.
func (a *Analysis) Dilepton() *DileptonFilter { return a.dilepton }
