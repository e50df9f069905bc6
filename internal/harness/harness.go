package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/evsel/internal/pipeline"
	"github.com/roach88/evsel/internal/store"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Decode the inline options on top of the defaults
//  2. Run the pipeline over the dataset with a fixed run id
//  3. Read the selected events and their variation weights back
//  4. Check event expectations and run-level assertions
//
// Returns an error only when the scenario cannot be executed at all;
// mismatches are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	if scenario.Dataset == nil {
		return nil, fmt.Errorf("scenario %s has no dataset loaded", scenario.Name)
	}

	opts, err := scenario.Options()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runID := scenario.RunID
	if runID == "" {
		runID = "test-run-default"
	}

	runner, err := pipeline.New(*opts, scenario.Dataset,
		pipeline.WithStore(st),
		pipeline.WithRunIDGenerator(pipeline.NewFixedGenerator(runID)),
		pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	ctx := context.Background()
	summary, err := runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Summary = summary
	if err := readTrace(ctx, st, runID, result); err != nil {
		return nil, err
	}

	for _, msg := range checkExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// readTrace fills result.Trace from the store, keying relative weights by
// variation name.
func readTrace(ctx context.Context, st *store.Store, runID string, result *Result) error {
	vars, err := st.ReadVariations(ctx, runID)
	if err != nil {
		return err
	}
	events, err := st.ReadEvents(ctx, runID, true)
	if err != nil {
		return err
	}

	for _, ev := range events {
		te := TraceEvent{
			Position:      ev.Position,
			EventID:       ev.EventID,
			NominalWeight: ev.NominalWeight,
			DefaultWeight: ev.DefaultWeight,
		}
		if len(ev.RelWeights) > 0 {
			te.RelWeights = make(map[string]float64, len(ev.RelWeights))
			for i, rel := range ev.RelWeights {
				te.RelWeights[vars[i].Name] = rel
			}
		}
		result.Trace = append(result.Trace, te)
	}
	return nil
}
