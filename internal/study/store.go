package study

import "github.com/roach88/panelstudy/internal/dataset"

// Store is the tabular data a run reads from and writes into.
// *dataset.Frame satisfies it.
//
// Rows are addressed by zero-based position. Implementations need not be safe
// for concurrent use; the runner never calls a Store from more than one
// goroutine.
type Store interface {
	RowCount() int
	HasColumn(name string) bool
	ReadNumeric(column string, row int) (float64, error)
	IsMissing(v float64) bool

	// DeclaredSortKey returns the columns the rows are declared sorted by.
	DeclaredSortKey() []string

	// CreateColumn creates a zero-filled column. Name collisions are errors.
	CreateColumn(name string, kind dataset.Kind) error
	WriteCell(column string, row int, v float64) error
	SetColumnLabel(column, text string) error

	// ValueLabels returns a copy of every value label on a column.
	ValueLabels(column string) map[int]string

	// DropColumnsMatching removes every column matching a glob pattern and
	// returns the removed names.
	DropColumnsMatching(pattern string) ([]string, error)
}

var _ Store = (*dataset.Frame)(nil)
