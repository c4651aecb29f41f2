package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/panelstudy/internal/dataset"
	"github.com/roach88/panelstudy/internal/store"
	"github.com/roach88/panelstudy/internal/study"
	"github.com/roach88/panelstudy/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
//  1. Build the input frame from columns, rows and value labels
//  2. Run the study with a fixed run ID
//  3. Save the frame and run record, then reload the frame
//  4. Collect stamps from the reloaded frame and evaluate assertions
//
// A returned error means the scenario could not be executed at all;
// assertion failures are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	frame, err := buildFrame(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to build frame: %w", err)
	}

	ctx := context.Background()
	runner := study.New(frame,
		study.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		study.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("")),
	)

	result := NewResult()
	res, runErr := runner.Run(ctx, scenario.Params)
	if runErr != nil {
		var cfgErr *study.ConfigurationError
		if !errors.As(runErr, &cfgErr) {
			return nil, fmt.Errorf("run failed: %w", runErr)
		}
		result.ErrorCode = string(cfgErr.Code)
		if !expectsError(scenario) {
			result.AddError(fmt.Sprintf("run rejected: %v", runErr))
		}
	}

	if err := st.SaveFrame(ctx, scenario.Name, frame); err != nil {
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}
	if res != nil {
		result.RunID = res.RunID
		if _, err := st.RecordRun(ctx, store.NewRunRecord(scenario.Name, res)); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	loaded, err := st.LoadFrame(ctx, scenario.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to reload frame: %w", err)
	}
	if err := collect(result, loaded, scenario.Params.Event); err != nil {
		return nil, fmt.Errorf("failed to collect stamps: %w", err)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario) {
		result.AddError(errMsg)
	}
	return result, nil
}

func expectsError(s *Scenario) bool {
	for _, a := range s.Assertions {
		if a.Type == AssertErrorCode {
			return true
		}
	}
	return false
}

// buildFrame creates the input frame. All input columns are doubles.
func buildFrame(s *Scenario) (*dataset.Frame, error) {
	f := dataset.New(len(s.Rows))
	for c, name := range s.Columns {
		values := make([]float64, len(s.Rows))
		for r, row := range s.Rows {
			if row[c] == nil {
				values[r] = dataset.Missing
			} else {
				values[r] = *row[c]
			}
		}
		if err := f.AddColumn(name, dataset.KindDouble, values); err != nil {
			return nil, err
		}
	}

	for column, labels := range s.ValueLabels {
		for value, text := range labels {
			if err := f.SetValueLabel(column, value, text); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range s.Existing {
		if err := f.CreateColumn(name, dataset.KindByte); err != nil {
			return nil, err
		}
	}

	panel, time := s.Params.Panel, s.Params.Time
	if !s.Unsorted && f.HasColumn(panel) && f.HasColumn(time) {
		if err := f.SortBy(panel, time); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// collect records output columns, labels and per-row stamps from f.
func collect(r *Result, f *dataset.Frame, event string) error {
	r.names = f.Names()
	prefix := event + "_"

	var outputs []*dataset.Column
	for _, name := range r.names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		outputs = append(outputs, c)
		r.Columns = append(r.Columns, name)
		r.Labels[name] = c.Label
	}

	for row := 0; row < f.RowCount(); row++ {
		var stamped []string
		for _, c := range outputs {
			if c.Values[row] == 1 {
				stamped = append(stamped, c.Name)
			}
		}
		if len(stamped) > 0 {
			r.byRow[row+1] = stamped
			r.Stamps = append(r.Stamps, RowStamps{Row: row + 1, Columns: stamped})
		}
	}
	return nil
}
