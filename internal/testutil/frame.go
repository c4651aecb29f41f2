package testutil

import (
	"math"
	"testing"

	"github.com/roach88/panelstudy/internal/dataset"
)

// M is the missing value, for readable row literals.
var M = math.NaN()

// Panel column names used by PanelFrame.
const (
	PanelCol = "id"
	TimeCol  = "t"
	StateCol = "st"
	EventCol = "ev"
)

// PanelFrame builds a frame with columns id, t, st, ev from rows of
// {id, t, st, ev} and sorts it by (id, t) so the sort key is declared.
func PanelFrame(t testing.TB, rows [][4]float64) *dataset.Frame {
	t.Helper()

	cols := [4][]float64{}
	for i := range cols {
		cols[i] = make([]float64, len(rows))
	}
	for r, row := range rows {
		for c := range cols {
			cols[c][r] = row[c]
		}
	}

	f := dataset.New(len(rows))
	names := [4]string{PanelCol, TimeCol, StateCol, EventCol}
	for c, name := range names {
		if err := f.AddColumn(name, dataset.KindDouble, cols[c]); err != nil {
			t.Fatalf("AddColumn(%q) failed: %v", name, err)
		}
	}
	if err := f.SortBy(PanelCol, TimeCol); err != nil {
		t.Fatalf("SortBy() failed: %v", err)
	}
	return f
}

// Stamped returns the names of the columns matching prefix that hold 1 on
// row, in storage order.
func Stamped(t testing.TB, f *dataset.Frame, prefix string, row int) []string {
	t.Helper()

	var out []string
	for _, name := range f.Names() {
		if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
			continue
		}
		v, err := f.ReadNumeric(name, row)
		if err != nil {
			t.Fatalf("ReadNumeric(%q, %d) failed: %v", name, row, err)
		}
		if v == 1 {
			out = append(out, name)
		}
	}
	return out
}
