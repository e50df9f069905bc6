package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/evsel/internal/analysis"
	"github.com/roach88/evsel/internal/config"
	"github.com/roach88/evsel/internal/event"
	"github.com/roach88/evsel/internal/metrics"
	"github.com/roach88/evsel/internal/protocol"
	"github.com/roach88/evsel/internal/store"
	"github.com/roach88/evsel/internal/weight"
)

// DefaultBatchSize is the number of selected events committed per
// transaction.
const DefaultBatchSize = 500

// Runner is one pass of the event loop over a dataset.
//
// Run must be called at most once; a Runner is not reusable because its
// cursor only moves forward.
type Runner struct {
	opts     config.Options
	dataset  *event.Dataset
	cursor   *event.SliceCursor
	analysis *analysis.Analysis

	store     *store.Store
	metrics   *metrics.Metrics
	runIDs    RunIDGenerator
	logger    *slog.Logger
	batchSize int
	maxEvents int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStore persists selected events. Without a store the runner only
// computes the summary.
func WithStore(s *store.Store) RunnerOption {
	return func(r *Runner) {
		r.store = s
	}
}

// WithMetrics uses m instead of a fresh metrics set.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithRunIDGenerator sets the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) RunnerOption {
	return func(r *Runner) {
		r.runIDs = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithBatchSize sets the number of events per store transaction.
// Values below 1 keep DefaultBatchSize.
func WithBatchSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithMaxEvents stops the loop after n records have been read.
// Zero means no limit.
func WithMaxEvents(n int64) RunnerOption {
	return func(r *Runner) {
		r.maxEvents = n
	}
}

// New builds the analysis for the dataset and returns a ready Runner.
func New(opts config.Options, ds *event.Dataset, options ...RunnerOption) (*Runner, error) {
	r := &Runner{
		opts:      opts,
		dataset:   ds,
		cursor:    event.NewSliceCursor(ds),
		runIDs:    UUIDv7Generator{},
		logger:    slog.Default(),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.New()
	}

	a, err := analysis.New(opts, r.cursor,
		analysis.WithLogger(r.logger),
		analysis.WithBuildHook(r.metrics.CollectionBuilt))
	if err != nil {
		return nil, fmt.Errorf("set up analysis for %s: %w", ds.Name, err)
	}
	r.analysis = a
	return r, nil
}

// Analysis returns the analysis the runner drives.
func (r *Runner) Analysis() *analysis.Analysis {
	return r.analysis
}

// Metrics returns the runner's counters.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Run processes every record of the dataset and returns the summary.
//
// Context cancellation is checked before each record. On any error the
// pending store batch is discarded and the run is left incomplete.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	runID := r.runIDs.Generate()

	hash, err := r.opts.Hash()
	if err != nil {
		return Summary{}, fmt.Errorf("hash options: %w", err)
	}

	w := r.analysis.Weight()
	sum := newSummary(runID, r.dataset, hash, r.opts.Syst, r.analysis.Filters(), w.Variations())

	var writer *store.EventWriter
	if r.store != nil {
		canonical, err := r.opts.CanonicalJSON()
		if err != nil {
			return Summary{}, fmt.Errorf("canonical options: %w", err)
		}
		run := store.Run{
			ID:         runID,
			Dataset:    r.dataset.Name,
			Simulation: r.dataset.Simulation,
			ConfigHash: hash,
			Options:    string(canonical),
			Syst:       r.opts.Syst,
		}
		if _, err := r.store.CreateRun(ctx, run, storeVariations(w)); err != nil {
			return Summary{}, err
		}
		writer = r.store.NewEventWriter(runID, r.batchSize)
	}

	r.logger.Info("run started",
		"run", runID,
		"dataset", r.dataset.Name,
		"records", len(r.dataset.Records),
		"variations", len(sum.Variations),
		"random_channels", r.analysis.Engine().Width(),
		"syst", r.opts.Syst)

	for r.cursor.Next() {
		if err := ctx.Err(); err != nil {
			if writer != nil {
				writer.Abort()
			}
			return sum, fmt.Errorf("run %s cancelled after %d events: %w", runID, sum.EventsRead, err)
		}

		ev, selected, err := r.processEvent()
		sum.EventsRead++
		if err != nil {
			if writer != nil {
				writer.Abort()
			}
			return sum, &EventError{
				RunID:    runID,
				Position: r.cursor.Position(),
				EventID:  r.cursor.EventID(),
				Err:      err,
			}
		}
		if selected {
			sum.add(ev)
			if writer != nil {
				if err := writer.Write(ctx, ev); err != nil {
					writer.Abort()
					return sum, err
				}
			}
		}

		if r.maxEvents > 0 && sum.EventsRead >= r.maxEvents {
			r.logger.Info("event limit reached", "run", runID, "max_events", r.maxEvents)
			break
		}
	}

	if writer != nil {
		if err := writer.Flush(); err != nil {
			return sum, err
		}
		if err := r.store.CompleteRun(ctx, runID, sum.EventsRead, sum.EventsSelected); err != nil {
			return sum, err
		}
	}

	snap, err := r.metrics.Snapshot()
	if err != nil {
		return sum, err
	}
	for i := range sum.Cutflow {
		sum.Cutflow[i].Passed = snap.Cutflow[sum.Cutflow[i].Filter]
	}

	r.logger.Info("run complete",
		"run", runID,
		"read", sum.EventsRead,
		"selected", sum.EventsSelected,
		"weight_sum", sum.WeightSum)
	return sum, nil
}

// processEvent evaluates the filters and, for selected records, the
// weights. Contract violations raised as panics are returned as errors.
func (r *Runner) processEvent() (ev store.Event, selected bool, err error) {
	defer func() { err = protocol.Recover(recover(), err) }()

	r.metrics.EventRead()
	for _, f := range r.analysis.Filters() {
		if !f.Pass() {
			return store.Event{}, false, nil
		}
		r.metrics.FilterPassed(f.Name())
	}

	rec := r.cursor.Record()
	w := r.analysis.Weight()
	ev = store.Event{
		Position:      uint64(r.cursor.Position()),
		Run:           rec.Run,
		Lumi:          rec.Lumi,
		EventID:       rec.Event,
		NominalWeight: w.NominalWeight(),
		DefaultWeight: w.DefaultWeight(),
		RelWeights:    make([]float64, w.NumVariations()),
	}
	for i := range ev.RelWeights {
		ev.RelWeights[i] = w.RelWeight(i)
	}
	r.metrics.EventSelected(ev.NominalWeight)

	pair, _ := r.analysis.Dilepton().Pair()
	r.logger.Debug("event selected",
		"position", ev.Position,
		"event", ev.EventID,
		"mll", pair.M(),
		"ptmiss", r.analysis.PtMiss().Pt(),
		"weight", ev.NominalWeight)
	return ev, true, nil
}

func storeVariations(w *weight.Composite) []store.Variation {
	vars := w.Variations()
	out := make([]store.Variation, len(vars))
	for i, v := range vars {
		out[i] = store.Variation{Index: v.Index, Component: v.Component, Local: v.Local, Name: v.Name}
	}
	return out
}
