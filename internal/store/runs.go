package store

import (
	"context"
	"fmt"

	"github.com/roach88/panelstudy/internal/study"
)

// RunRecord is one row of run history.
type RunRecord struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	Dataset   string `json:"dataset"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Panel     string `json:"panel"`
	Time      string `json:"time"`
	K         int    `json:"k"`
	L         int    `json:"l"`
	Workers   int    `json:"workers"`
	States    int    `json:"states"`
	Columns   int    `json:"columns"`
	Rows      int    `json:"rows"`
	Skipped   int    `json:"skipped"`
	Events    int    `json:"events"`
	Stamps    int    `json:"stamps"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// NewRunRecord flattens a run result for storage.
func NewRunRecord(dataset string, res *study.Result) RunRecord {
	return RunRecord{
		ID:        res.RunID,
		Dataset:   dataset,
		Event:     res.Params.Event,
		State:     res.Params.State,
		Panel:     res.Params.Panel,
		Time:      res.Params.Time,
		K:         res.Params.K,
		L:         res.Params.L,
		Workers:   res.Params.Workers,
		States:    len(res.States),
		Columns:   len(res.Columns),
		Rows:      res.Rows,
		Skipped:   res.Skipped,
		Events:    res.Events,
		Stamps:    res.Stamps,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
}

// RecordRun appends r to the run history. Seq is assigned by the database
// and returned.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, dataset, event_column, state_column, panel_column, time_column,
			k, l, workers, state_count, column_count, row_count,
			skipped, events, stamps, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Dataset, r.Event, r.State, r.Panel, r.Time,
		r.K, r.L, r.Workers, r.States, r.Columns, r.Rows,
		r.Skipped, r.Events, r.Stamps, r.ElapsedMS)
	if err != nil {
		return 0, fmt.Errorf("record run %s: %w", r.ID, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record run %s: %w", r.ID, err)
	}
	return seq, nil
}

// ListRuns returns run history in insertion order. An empty dataset lists
// runs for every dataset.
func (s *Store) ListRuns(ctx context.Context, dataset string) ([]RunRecord, error) {
	query := `
		SELECT seq, id, dataset, event_column, state_column, panel_column, time_column,
		       k, l, workers, state_count, column_count, row_count,
		       skipped, events, stamps, elapsed_ms
		FROM runs`
	var args []any
	if dataset != "" {
		query += ` WHERE dataset = ?`
		args = append(args, dataset)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(
			&r.Seq, &r.ID, &r.Dataset, &r.Event, &r.State, &r.Panel, &r.Time,
			&r.K, &r.L, &r.Workers, &r.States, &r.Columns, &r.Rows,
			&r.Skipped, &r.Events, &r.Stamps, &r.ElapsedMS,
		); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}
