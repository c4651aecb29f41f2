package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/panelstudy/internal/dataset"
)

// SaveFrame stores f under name, replacing any existing dataset with that
// name. The replacement is atomic: on error the previous version is kept.
func (s *Store) SaveFrame(ctx context.Context, name string, f *dataset.Frame) error {
	sortKey, err := json.Marshal(f.DeclaredSortKey())
	if err != nil {
		return fmt.Errorf("save dataset %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dataset %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	// Cascades to columns, cells and value labels.
	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name); err != nil {
		return fmt.Errorf("save dataset %q: delete previous: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (name, row_count, sort_key)
		VALUES (?, ?, ?)
	`, name, f.RowCount(), string(sortKey)); err != nil {
		return fmt.Errorf("save dataset %q: %w", name, err)
	}

	colStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_columns (dataset, name, position, kind, label)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save dataset %q: prepare columns: %w", name, err)
	}
	defer colStmt.Close()

	cellStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (dataset, column_name, row_index, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save dataset %q: prepare cells: %w", name, err)
	}
	defer cellStmt.Close()

	labelStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO value_labels (dataset, column_name, value, label)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save dataset %q: prepare value labels: %w", name, err)
	}
	defer labelStmt.Close()

	for pos, colName := range f.Names() {
		c, err := f.Column(colName)
		if err != nil {
			return fmt.Errorf("save dataset %q: %w", name, err)
		}
		if _, err := colStmt.ExecContext(ctx, name, c.Name, pos, string(c.Kind), c.Label); err != nil {
			return fmt.Errorf("save dataset %q column %q: %w", name, c.Name, err)
		}

		for row, v := range c.Values {
			if v == 0 {
				continue
			}
			var value any = v
			if dataset.IsMissing(v) {
				value = nil
			}
			if _, err := cellStmt.ExecContext(ctx, name, c.Name, row, value); err != nil {
				return fmt.Errorf("save dataset %q column %q row %d: %w", name, c.Name, row, err)
			}
		}

		for code, text := range f.ValueLabels(c.Name) {
			if _, err := labelStmt.ExecContext(ctx, name, c.Name, code, text); err != nil {
				return fmt.Errorf("save dataset %q value label %q=%d: %w", name, c.Name, code, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dataset %q: commit: %w", name, err)
	}
	return nil
}

// DeleteDataset removes a dataset. Run history is kept.
func (s *Store) DeleteDataset(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete dataset %q: %w", name, ErrDatasetNotFound)
	}
	return nil
}
