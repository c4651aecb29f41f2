package dataio

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/panelstudy/internal/dataset"
)

const defaultSheet = "Sheet1"

// ReadXLSX imports one sheet of a workbook. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheet string) (*dataset.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("read xlsx %s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read xlsx %s sheet %q: empty sheet", path, sheet)
	}

	f, err := fromRecords(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("read xlsx %s sheet %q: %w", path, sheet, err)
	}
	return f, nil
}

// WriteXLSX exports f into a new single-sheet workbook at path. Missing
// cells are left empty.
func WriteXLSX(path string, f *dataset.Frame, sheet string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := wb.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}

	sw, err := wb.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}

	names := f.Names()
	header := make([]interface{}, len(names))
	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		header[i] = name
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for row := 0; row < f.RowCount(); row++ {
		values := make([]interface{}, len(cols))
		for i, c := range cols {
			if v := c.Values[row]; !dataset.IsMissing(v) {
				values[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", row+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}
