package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, dataset, simulation, config_hash, options, syst,
		       events_read, events_selected, completed
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run ordered by seq.
//
// Returns an empty slice (not nil) when the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, dataset, simulation, config_hash, options, syst,
		       events_read, events_selected, completed
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Dataset,
		&run.Simulation,
		&run.ConfigHash,
		&run.Options,
		&run.Syst,
		&run.EventsRead,
		&run.EventsSelected,
		&run.Completed,
	)
	return run, err
}

// ReadVariations returns the variation table of a run ordered by index.
func (s *Store) ReadVariations(ctx context.Context, runID string) ([]Variation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, component, local_idx, name
		FROM variations
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query variations: %w", err)
	}
	defer rows.Close()

	variations := []Variation{}
	for rows.Next() {
		var v Variation
		if err := rows.Scan(&v.Index, &v.Component, &v.Local, &v.Name); err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variations: %w", err)
	}
	return variations, nil
}

// ReadEvents returns the selected events of a run ordered by position.
// With withWeights set, each event's RelWeights are filled in index order.
func (s *Store) ReadEvents(ctx context.Context, runID string, withWeights bool) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, run, lumi, event_id, nominal_weight, default_weight
		FROM events
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	events := []Event{}
	for rows.Next() {
		var ev Event
		var pos, id int64
		if err := rows.Scan(&pos, &ev.Run, &ev.Lumi, &id, &ev.NominalWeight, &ev.DefaultWeight); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Position, ev.EventID = uint64(pos), uint64(id)
		events = append(events, ev)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	// The single connection is free again once rows is closed.
	if withWeights {
		for i := range events {
			rel, err := s.ReadVariationWeights(ctx, runID, events[i].Position)
			if err != nil {
				return nil, err
			}
			events[i].RelWeights = rel
		}
	}
	return events, nil
}

// ReadVariationWeights returns RelWeight(i) of one event ordered by index.
func (s *Store) ReadVariationWeights(ctx context.Context, runID string, position uint64) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rel_weight
		FROM variation_weights
		WHERE run_id = ? AND position = ?
		ORDER BY idx ASC
	`, runID, int64(position))
	if err != nil {
		return nil, fmt.Errorf("query variation weights: %w", err)
	}
	defer rows.Close()

	weights := []float64{}
	for rows.Next() {
		var w float64
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan variation weight: %w", err)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variation weights: %w", err)
	}
	return weights, nil
}
