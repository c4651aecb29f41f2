package study

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/panelstudy/internal/dataset"
	"github.com/roach88/panelstudy/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a config over the testutil.PanelFrame column names.
func testConfig(k, l int) Config {
	return Config{
		K:     k,
		L:     l,
		Event: testutil.EventCol,
		State: testutil.StateCol,
		Panel: testutil.PanelCol,
		Time:  testutil.TimeCol,
	}
}

// runStudy runs cfg over f and fails the test on error.
func runStudy(t *testing.T, f *dataset.Frame, cfg Config) *Result {
	t.Helper()
	r := New(f,
		WithLogger(discardLogger()),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-1")),
	)
	res, err := r.Run(context.Background(), cfg)
	require.NoError(t, err)
	return res
}

// stamps returns the stamped output columns for every row.
func stamps(t *testing.T, f *dataset.Frame) [][]string {
	t.Helper()
	out := make([][]string, f.RowCount())
	for row := range out {
		out[row] = testutil.Stamped(t, f, testutil.EventCol+"_", row)
	}
	return out
}
