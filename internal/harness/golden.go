package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the observable outcome of a scenario execution.
type Snapshot struct {
	ScenarioName string            `json:"scenario_name"`
	RunID        string            `json:"run_id,omitempty"`
	ErrorCode    string            `json:"error_code,omitempty"`
	Columns      []string          `json:"columns"`
	Labels       map[string]string `json:"labels,omitempty"`
	Stamps       []RowStamps       `json:"stamps"`
}

// SnapshotJSON renders a snapshot deterministically: struct fields keep
// declaration order and map keys are sorted by encoding/json.
func SnapshotJSON(name string, result *Result) ([]byte, error) {
	snap := Snapshot{
		ScenarioName: name,
		RunID:        result.RunID,
		ErrorCode:    result.ErrorCode,
		Columns:      result.Columns,
		Labels:       result.Labels,
		Stamps:       result.Stamps,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
