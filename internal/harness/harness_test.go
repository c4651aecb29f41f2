package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := DiscoverScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_DetectsWrongExpectation(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong
description: "Expects a stamp that is not produced"
params: {k: 1, l: 0, event: ev, state: st, panel: id, time: t}
columns: [id, t, st, ev]
rows:
  - [1, 1, 7, 0]
  - [1, 2, 7, 1]
assertions:
  - type: stamps
    row: 1
    columns: [ev_7_1_0]
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 1 stamped []")
}

func TestRun_ExhaustiveCatchesExtraStamps(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: extra
description: "Row 3 is stamped but not asserted"
params: {k: 1, l: 0, event: ev, state: st, panel: id, time: t}
columns: [id, t, st, ev]
rows:
  - [1, 1, 7, 0]
  - [1, 2, 7, 1]
  - [1, 3, 7, 0]
exhaustive: true
assertions:
  - type: stamps
    row: 2
    columns: [ev_7_1_0]
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 3")
}

func TestRun_UnexpectedConfigurationError(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_k
description: "K=0 without an error_code assertion"
params: {k: 0, l: 0, event: ev, state: st, panel: id, time: t}
columns: [id, t, st, ev]
rows:
  - [1, 1, 7, 1]
assertions:
  - type: column_count
    count: 0
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "INVALID_K", result.ErrorCode)
	assert.Contains(t, result.Errors[0], "run rejected")
}

func TestRun_StampsAtIsOneBased(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "worked_k2_l1.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Empty(t, result.StampsAt(1))
	assert.Equal(t, []string{"ev_7_1_0"}, result.StampsAt(2))
	assert.Equal(t, "test-run-default", result.RunID)
}
