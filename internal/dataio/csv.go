package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/roach88/panelstudy/internal/dataset"
)

// ReadCSV imports CSV content with a header row.
func ReadCSV(r io.Reader) (*dataset.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty input")
	}

	f, err := fromRecords(records[0], records[1:])
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return f, nil
}

// ReadCSVFile imports the CSV file at path.
func ReadCSVFile(path string) (*dataset.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// WriteCSV exports f with a header row. Values are written as numbers;
// value labels are not applied.
func WriteCSV(w io.Writer, f *dataset.Frame) error {
	cw := csv.NewWriter(w)
	names := f.Names()
	if err := cw.Write(names); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cols := make([]*dataset.Column, len(names))
	for i, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[i] = c
	}

	record := make([]string, len(cols))
	for row := 0; row < f.RowCount(); row++ {
		for i, c := range cols {
			record[i] = formatValue(c.Values[row])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteCSVFile exports f to path, replacing any existing file.
func WriteCSVFile(path string, f *dataset.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
