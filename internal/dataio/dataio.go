// Package dataio moves datasets between files and dataset.Frame.
//
// Supported formats are CSV and XLSX. The first row holds column names.
// Cells that are empty, "." or "NA" are missing. A column whose cells are all
// numeric is imported as int (all integral) or double; any other column is
// encoded: its distinct strings are sorted, numbered from 1, and the numbers
// are stored with the strings attached as value labels.
package dataio

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/panelstudy/internal/dataset"
)

// ReadFile imports a CSV or XLSX file, chosen by extension. sheet is only
// used for XLSX; empty means the first sheet.
func ReadFile(path, sheet string) (*dataset.Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSX(path, sheet)
	}
	return nil, fmt.Errorf("import %s: unsupported extension (want .csv or .xlsx)", path)
}

// WriteFile exports f as CSV or XLSX, chosen by extension.
func WriteFile(path string, f *dataset.Frame, sheet string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSVFile(path, f)
	case ".xlsx":
		return WriteXLSX(path, f, sheet)
	}
	return fmt.Errorf("export %s: unsupported extension (want .csv or .xlsx)", path)
}

func isMissingToken(s string) bool {
	switch strings.TrimSpace(s) {
	case "", ".", "NA":
		return true
	}
	return false
}

// fromRecords builds a frame from a header and string rows. Short rows are
// padded with missing cells.
func fromRecords(header []string, rows [][]string) (*dataset.Frame, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+2, len(row), len(header))
		}
	}

	f := dataset.New(len(rows))
	for c, name := range header {
		cells := make([]string, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			}
		}

		values, kind, ok := parseNumeric(cells)
		if ok {
			if err := f.AddColumn(name, kind, values); err != nil {
				return nil, err
			}
			continue
		}

		values, labels := encode(cells)
		if err := f.AddColumn(name, dataset.KindInt, values); err != nil {
			return nil, err
		}
		for code, text := range labels {
			if err := f.SetValueLabel(name, code, text); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

// parseNumeric parses every cell as a number. ok is false if any
// non-missing cell is not numeric.
func parseNumeric(cells []string) ([]float64, dataset.Kind, bool) {
	values := make([]float64, len(cells))
	kind := dataset.KindInt
	for i, s := range cells {
		if isMissingToken(s) {
			values[i] = dataset.Missing
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, "", false
		}
		if v != math.Trunc(v) {
			kind = dataset.KindDouble
		}
		values[i] = v
	}
	return values, kind, true
}

// encode maps distinct strings to codes 1..n in sorted order.
func encode(cells []string) ([]float64, map[int]string) {
	distinct := make(map[string]struct{})
	for _, s := range cells {
		if !isMissingToken(s) {
			distinct[strings.TrimSpace(s)] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(distinct))
	for s := range distinct {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	labels := make(map[int]string, len(sorted))
	for i, s := range sorted {
		codes[s] = i + 1
		labels[i+1] = s
	}

	values := make([]float64, len(cells))
	for i, s := range cells {
		if isMissingToken(s) {
			values[i] = dataset.Missing
			continue
		}
		values[i] = float64(codes[strings.TrimSpace(s)])
	}
	return values, labels
}

// formatValue renders a cell for export. Missing cells are empty.
func formatValue(v float64) string {
	if dataset.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
