package collection

import (
	"github.com/roach88/evsel/internal/cache"
	"github.com/roach88/evsel/internal/kinematics"
	"github.com/roach88/evsel/internal/protocol"
)

// DefaultCleaningRadius is the angular distance below which a candidate is
// considered to overlap a claimed object.
const DefaultCleaningRadius = 0.4

// Object is anything carrying a four-momentum.
type Object interface {
	P4() kinematics.Vector
}

// Calibrated objects also expose their momentum before calibration.
// Collections of calibrated objects report a non-zero momentum shift.
type Calibrated interface {
	Object
	RawP4() kinematics.Vector
}

// Provider is a collection whose objects can claim candidates of another
// collection during cleaning.
type Provider interface {
	Name() string

	// Momenta returns the four-momenta of the primary (tight) objects for
	// the current record, building them first if needed.
	Momenta() []kinematics.Vector
}

// MomentumSource aggregates the loose objects of a collection.
type MomentumSource interface {
	Name() string

	// SumP4 returns the vector sum of all loose four-momenta.
	SumP4() kinematics.Vector

	// SumShift returns Σ(P4 − RawP4) over loose calibrated objects.
	// Zero for collections of uncalibrated objects.
	SumShift() kinematics.Vector
}

// Selector describes how to derive a collection from the current record.
type Selector[T Object] struct {
	// Candidates returns the raw candidates of the current record.
	// Must not mutate record fields.
	Candidates func() []T

	// Loose accepts candidates into the loose list. Nil accepts all.
	Loose func(T) bool

	// Tight is applied to loose candidates only. Nil makes tight equal to
	// loose.
	Tight func(T) bool
}

// Option configures a Collection.
type Option func(*settings)

type settings struct {
	radius  float64
	onBuild func(name string)
}

// WithCleaningRadius sets the angular distance used for cleaning.
func WithCleaningRadius(dr float64) Option {
	return func(s *settings) {
		s.radius = dr
	}
}

// WithBuildHook registers a function called after every rebuild.
func WithBuildHook(fn func(name string)) Option {
	return func(s *settings) {
		s.onBuild = fn
	}
}

// Collection is a lazily built derived collection.
type Collection[T Object] struct {
	name     string
	cache    *cache.Cache
	sel      Selector[T]
	radius2  float64
	onBuild  func(string)
	priority []Provider

	loose    []T
	tight    []T
	built    bool
	building bool
}

// New creates a collection bound to the given position source.
func New[T Object](name string, src cache.PositionSource, sel Selector[T], opts ...Option) *Collection[T] {
	s := settings{radius: DefaultCleaningRadius}
	for _, opt := range opts {
		opt(&s)
	}
	return &Collection[T]{
		name:    name,
		cache:   cache.New(src),
		sel:     sel,
		radius2: s.radius * s.radius,
		onBuild: s.onBuild,
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// EnableCleaning registers higher-priority providers whose objects claim
// overlapping candidates of this collection. Providers are kept by
// reference and must outlive the collection.
//
// Returns CLEANING_AFTER_BUILD if the collection has already been built and
// DEPENDENCY_CYCLE if a provider is the collection itself.
func (c *Collection[T]) EnableCleaning(providers ...Provider) error {
	if c.built {
		return protocol.New(protocol.CodeCleaningAfterBuild, c.name,
			"cleaning must be enabled before the first build")
	}
	for _, p := range providers {
		if self, ok := p.(*Collection[T]); ok && self == c {
			return protocol.New(protocol.CodeDependencyCycle, c.name,
				"collection cannot be cleaned against itself")
		}
	}
	c.priority = append(c.priority, providers...)
	return nil
}

// Dependencies returns the names of the providers this collection is
// cleaned against, in priority order.
func (c *Collection[T]) Dependencies() []string {
	names := make([]string, len(c.priority))
	for i, p := range c.priority {
		names[i] = p.Name()
	}
	return names
}

// Get returns the tight objects of the current record.
// The returned slice is owned by the collection and valid until the cursor
// moves.
func (c *Collection[T]) Get() []T {
	c.update()
	return c.tight
}

// GetLoose returns the loose objects of the current record, a superset of
// Get.
func (c *Collection[T]) GetLoose() []T {
	c.update()
	return c.loose
}

// Momenta implements Provider.
func (c *Collection[T]) Momenta() []kinematics.Vector {
	objs := c.Get()
	out := make([]kinematics.Vector, len(objs))
	for i, o := range objs {
		out[i] = o.P4()
	}
	return out
}

// SumP4 implements MomentumSource.
func (c *Collection[T]) SumP4() kinematics.Vector {
	var sum kinematics.Vector
	for _, o := range c.GetLoose() {
		sum = sum.Add(o.P4())
	}
	return sum
}

// SumShift implements MomentumSource.
func (c *Collection[T]) SumShift() kinematics.Vector {
	var sum kinematics.Vector
	for _, o := range c.GetLoose() {
		if cal, ok := any(o).(Calibrated); ok {
			sum = sum.Add(cal.P4().Sub(cal.RawP4()))
		}
	}
	return sum
}

func (c *Collection[T]) update() {
	if c.building {
		panic(protocol.New(protocol.CodeDependencyCycle, c.name,
			"collection requested while it is being built"))
	}
	if c.cache.IsUpdated() {
		c.build()
	}
}

// build derives both lists for the current record. A build that panics
// leaves the cache invalidated, so a retry at the same position builds
// again instead of serving the previous record's objects.
func (c *Collection[T]) build() {
	c.building = true
	done := false
	defer func() {
		c.building = false
		if !done {
			c.cache.Invalidate()
		}
	}()

	claimed := c.claimed()

	var loose, tight []T
	for _, cand := range c.sel.Candidates() {
		if c.sel.Loose != nil && !c.sel.Loose(cand) {
			continue
		}
		if c.overlaps(cand.P4(), claimed) {
			continue
		}
		loose = append(loose, cand)
		if c.sel.Tight == nil || c.sel.Tight(cand) {
			tight = append(tight, cand)
		}
	}

	c.loose = loose
	c.tight = tight
	c.built = true
	done = true
	if c.onBuild != nil {
		c.onBuild(c.name)
	}
}

type direction struct {
	eta, phi float64
}

// claimed collects the directions of all objects held by the priority
// providers for the current record.
func (c *Collection[T]) claimed() []direction {
	var dirs []direction
	for _, p := range c.priority {
		for _, v := range p.Momenta() {
			dirs = append(dirs, direction{eta: v.Eta(), phi: v.Phi()})
		}
	}
	return dirs
}

func (c *Collection[T]) overlaps(p4 kinematics.Vector, claimed []direction) bool {
	if len(claimed) == 0 {
		return false
	}
	eta, phi := p4.Eta(), p4.Phi()
	for _, d := range claimed {
		if kinematics.DeltaR2(eta, phi, d.eta, d.phi) < c.radius2 {
			return true
		}
	}
	return false
}
