package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/panelstudy/internal/dataset"
)

// ErrDatasetNotFound is returned when no dataset has the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetInfo summarizes a stored dataset.
type DatasetInfo struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	SortKey []string `json:"sort_key"`
}

// LoadFrame reads the named dataset into memory.
func (s *Store) LoadFrame(ctx context.Context, name string) (*dataset.Frame, error) {
	var rows int
	var sortKeyJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT row_count, sort_key FROM datasets WHERE name = ?
	`, name).Scan(&rows, &sortKeyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load dataset %q: %w", name, ErrDatasetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}

	f := dataset.New(rows)
	if err := s.loadColumns(ctx, name, f); err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	if err := s.loadCells(ctx, name, f); err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	if err := s.loadValueLabels(ctx, name, f); err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}

	var sortKey []string
	if err := json.Unmarshal([]byte(sortKeyJSON), &sortKey); err != nil {
		return nil, fmt.Errorf("load dataset %q: sort key: %w", name, err)
	}
	if err := f.SetDeclaredSortKey(sortKey); err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	return f, nil
}

func (s *Store) loadColumns(ctx context.Context, name string, f *dataset.Frame) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, label FROM dataset_columns
		WHERE dataset = ?
		ORDER BY position ASC
	`, name)
	if err != nil {
		return fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var colName, kindName, label string
		if err := rows.Scan(&colName, &kindName, &label); err != nil {
			return fmt.Errorf("scan column: %w", err)
		}
		kind, err := dataset.ParseKind(kindName)
		if err != nil {
			return err
		}
		if err := f.CreateColumn(colName, kind); err != nil {
			return err
		}
		if err := f.SetColumnLabel(colName, label); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) loadCells(ctx context.Context, name string, f *dataset.Frame) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, row_index, value FROM cells
		WHERE dataset = ?
		ORDER BY column_name, row_index
	`, name)
	if err != nil {
		return fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	var current string
	var col *dataset.Column
	for rows.Next() {
		var colName string
		var row int
		var value sql.NullFloat64
		if err := rows.Scan(&colName, &row, &value); err != nil {
			return fmt.Errorf("scan cell: %w", err)
		}
		if col == nil || colName != current {
			if col, err = f.Column(colName); err != nil {
				return err
			}
			current = colName
		}
		if row < 0 || row >= len(col.Values) {
			return fmt.Errorf("cell %q row %d: %w", colName, row, dataset.ErrRowOutOfRange)
		}
		if value.Valid {
			col.Values[row] = value.Float64
		} else {
			col.Values[row] = dataset.Missing
		}
	}
	return rows.Err()
}

func (s *Store) loadValueLabels(ctx context.Context, name string, f *dataset.Frame) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, value, label FROM value_labels
		WHERE dataset = ?
		ORDER BY column_name, value
	`, name)
	if err != nil {
		return fmt.Errorf("query value labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var colName, label string
		var value int
		if err := rows.Scan(&colName, &value, &label); err != nil {
			return fmt.Errorf("scan value label: %w", err)
		}
		if err := f.SetValueLabel(colName, value, label); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListDatasets returns every stored dataset ordered by name.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, d.row_count, d.sort_key,
		       (SELECT COUNT(*) FROM dataset_columns c WHERE c.dataset = d.name)
		FROM datasets d
		ORDER BY d.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var sortKeyJSON string
		if err := rows.Scan(&info.Name, &info.Rows, &sortKeyJSON, &info.Columns); err != nil {
			return nil, fmt.Errorf("list datasets: %w", err)
		}
		if err := json.Unmarshal([]byte(sortKeyJSON), &info.SortKey); err != nil {
			return nil, fmt.Errorf("list datasets: sort key of %q: %w", info.Name, err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return out, nil
}
