package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/panelstudy/internal/study"
)

// Scenario defines a conformance test scenario: an input panel, the study
// parameters, and assertions on the generated indicators.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Params configures the run.
	Params study.Config `yaml:"params"`

	// Columns names the input columns, in order.
	Columns []string `yaml:"columns"`

	// Rows holds one value per column. A null entry is a missing value.
	Rows [][]*float64 `yaml:"rows"`

	// ValueLabels attaches value labels to input columns before the run.
	ValueLabels map[string]map[int]string `yaml:"value_labels,omitempty"`

	// Existing lists zero-filled byte columns created before the run, for
	// example stale output from an earlier run.
	Existing []string `yaml:"existing,omitempty"`

	// Unsorted skips sorting by (panel, time), leaving no declared sort key.
	Unsorted bool `yaml:"unsorted,omitempty"`

	// Exhaustive requires every row not named by a stamps assertion to carry
	// no stamps.
	Exhaustive bool `yaml:"exhaustive,omitempty"`

	// Assertions validate the run result.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a run result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "stamps": Row carries exactly Columns
	// - "no_stamps": every row in Rows carries no stamps
	// - "column_count": Count output columns exist
	// - "column_label": Column is labeled Label
	// - "column_absent": Column does not exist
	// - "error_code": the run fails with configuration error Code
	Type string `yaml:"type"`

	// Row is a 1-based row number (used by stamps).
	Row int `yaml:"row,omitempty"`

	// Rows are 1-based row numbers (used by no_stamps).
	Rows []int `yaml:"rows,omitempty"`

	// Columns are the expected stamped columns (used by stamps).
	Columns []string `yaml:"columns,omitempty"`

	// Column names one column (used by column_label, column_absent).
	Column string `yaml:"column,omitempty"`

	// Label is the expected label (used by column_label).
	Label string `yaml:"label,omitempty"`

	// Count is the expected number of output columns (used by column_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected configuration error code (used by error_code).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertStamps       = "stamps"
	AssertNoStamps     = "no_stamps"
	AssertColumnCount  = "column_count"
	AssertColumnLabel  = "column_label"
	AssertColumnAbsent = "column_absent"
	AssertErrorCode    = "error_code"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("columns list is required and must be non-empty")
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return fmt.Errorf("rows[%d]: has %d values, want %d", i, len(row), len(s.Columns))
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Rows)); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, rows int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	inRange := func(row int) bool { return row >= 1 && row <= rows }

	switch a.Type {
	case AssertStamps:
		if !inRange(a.Row) {
			return fmt.Errorf("assertions[%d]: row %d out of range 1..%d for stamps", index, a.Row, rows)
		}
	case AssertNoStamps:
		if len(a.Rows) == 0 {
			return fmt.Errorf("assertions[%d]: rows list is required for no_stamps", index)
		}
		for _, row := range a.Rows {
			if !inRange(row) {
				return fmt.Errorf("assertions[%d]: row %d out of range 1..%d for no_stamps", index, row, rows)
			}
		}
	case AssertColumnCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for column_count", index)
		}
	case AssertColumnLabel:
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for column_label", index)
		}
	case AssertColumnAbsent:
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for column_absent", index)
		}
	case AssertErrorCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
