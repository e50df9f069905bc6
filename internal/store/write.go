package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateRun inserts a run record and its variation table in one
// transaction. The run's seq is assigned from the store's logical clock
// and returned.
func (s *Store) CreateRun(ctx context.Context, run Run, variations []Variation) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("create run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, dataset, simulation, config_hash, options, syst)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, seq, run.Dataset, run.Simulation, run.ConfigHash, run.Options, run.Syst)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}

	for _, v := range variations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO variations (run_id, idx, component, local_idx, name)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, v.Index, v.Component, v.Local, v.Name)
		if err != nil {
			return 0, fmt.Errorf("create run: variation %d: %w", v.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create run: commit: %w", err)
	}
	return seq, nil
}

// EventWriter batches event writes into transactions.
//
// Not safe for concurrent use; the event loop has a single writer.
type EventWriter struct {
	store     *Store
	runID     string
	batchSize int

	tx      *sql.Tx
	pending int
}

// NewEventWriter creates a writer committing every batchSize events.
// batchSize < 1 commits every event.
func (s *Store) NewEventWriter(runID string, batchSize int) *EventWriter {
	if batchSize < 1 {
		batchSize = 1
	}
	return &EventWriter{store: s, runID: runID, batchSize: batchSize}
}

// Write stores one selected event with its relative weights.
func (w *EventWriter) Write(ctx context.Context, ev Event) error {
	if w.tx == nil {
		tx, err := w.store.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("write event: begin: %w", err)
		}
		w.tx = tx
	}

	_, err := w.tx.ExecContext(ctx, `
		INSERT INTO events (run_id, position, run, lumi, event_id, nominal_weight, default_weight)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.runID, int64(ev.Position), ev.Run, ev.Lumi, int64(ev.EventID), ev.NominalWeight, ev.DefaultWeight)
	if err != nil {
		return fmt.Errorf("write event at position %d: %w", ev.Position, err)
	}

	for i, rel := range ev.RelWeights {
		_, err := w.tx.ExecContext(ctx, `
			INSERT INTO variation_weights (run_id, position, idx, rel_weight)
			VALUES (?, ?, ?, ?)
		`, w.runID, int64(ev.Position), i, rel)
		if err != nil {
			return fmt.Errorf("write event at position %d: variation %d: %w", ev.Position, i, err)
		}
	}

	w.pending++
	if w.pending >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush commits any pending events.
func (w *EventWriter) Flush() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx = nil
	w.pending = 0
	if err != nil {
		return fmt.Errorf("flush events: %w", err)
	}
	return nil
}

// Abort discards pending events.
func (w *EventWriter) Abort() {
	if w.tx != nil {
		_ = w.tx.Rollback()
		w.tx = nil
		w.pending = 0
	}
}

// CompleteRun records the final counters of a run and marks it complete.
func (s *Store) CompleteRun(ctx context.Context, runID string, read, selected int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET events_read = ?, events_selected = ?, completed = 1
		WHERE id = ?
	`, read, selected, runID)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("complete run: %w", ErrNotFound)
	}
	return nil
}
