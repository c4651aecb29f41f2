package harness

import (
	"fmt"
	"sort"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Stamps   []RowStamps // All stamps for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Stamps) > 0 {
		fmt.Fprintf(&buf, "\nAll stamps:\n")
		for _, rs := range e.Stamps {
			fmt.Fprintf(&buf, "  [row %d] %s\n", rs.Row, strings.Join(rs.Columns, " "))
		}
	}
	return buf.String()
}

// assertStamps checks that a row carries exactly the expected output
// columns. Order does not matter.
func assertStamps(result *Result, a Assertion) error {
	actual := result.StampsAt(a.Row)
	if sameSet(actual, a.Columns) {
		return nil
	}
	return &AssertionError{
		Type:     AssertStamps,
		Expected: fmt.Sprintf("row %d stamped [%s]", a.Row, strings.Join(a.Columns, " ")),
		Actual:   fmt.Sprintf("row %d stamped [%s]", a.Row, strings.Join(actual, " ")),
		Stamps:   result.Stamps,
	}
}

// assertNoStamps checks that none of the rows carry a stamp.
func assertNoStamps(result *Result, rows []int) error {
	for _, row := range rows {
		if actual := result.StampsAt(row); len(actual) > 0 {
			return &AssertionError{
				Type:     AssertNoStamps,
				Expected: fmt.Sprintf("row %d unstamped", row),
				Actual:   fmt.Sprintf("row %d stamped [%s]", row, strings.Join(actual, " ")),
				Stamps:   result.Stamps,
			}
		}
	}
	return nil
}

func assertColumnCount(result *Result, a Assertion) error {
	if len(result.Columns) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertColumnCount,
		Expected: fmt.Sprintf("%d output columns", a.Count),
		Actual:   fmt.Sprintf("%d output columns: %v", len(result.Columns), result.Columns),
	}
}

func assertColumnLabel(result *Result, a Assertion) error {
	label, ok := result.Labels[a.Column]
	if !ok {
		return &AssertionError{
			Type:     AssertColumnLabel,
			Expected: fmt.Sprintf("output column %s", a.Column),
			Actual:   "column not found",
		}
	}
	if label != a.Label {
		return &AssertionError{
			Type:     AssertColumnLabel,
			Expected: fmt.Sprintf("%s labeled %q", a.Column, a.Label),
			Actual:   fmt.Sprintf("%s labeled %q", a.Column, label),
		}
	}
	return nil
}

func assertColumnAbsent(result *Result, a Assertion) error {
	if !result.hasColumn(a.Column) {
		return nil
	}
	return &AssertionError{
		Type:     AssertColumnAbsent,
		Expected: fmt.Sprintf("column %s absent", a.Column),
		Actual:   "column present",
	}
}

func assertErrorCode(result *Result, a Assertion) error {
	if result.ErrorCode == a.Code {
		return nil
	}
	actual := result.ErrorCode
	if actual == "" {
		actual = "run succeeded"
	}
	return &AssertionError{
		Type:     AssertErrorCode,
		Expected: fmt.Sprintf("configuration error %s", a.Code),
		Actual:   actual,
	}
}

// assertExhaustive checks that rows not named by any stamps assertion carry
// no stamps.
func assertExhaustive(result *Result, assertions []Assertion) error {
	named := make(map[int]bool)
	for _, a := range assertions {
		if a.Type == AssertStamps {
			named[a.Row] = true
		}
	}
	for _, rs := range result.Stamps {
		if !named[rs.Row] {
			return &AssertionError{
				Type:     "exhaustive",
				Expected: fmt.Sprintf("row %d unstamped (not named by any stamps assertion)", rs.Row),
				Actual:   fmt.Sprintf("row %d stamped [%s]", rs.Row, strings.Join(rs.Columns, " ")),
				Stamps:   result.Stamps,
			}
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions of the scenario against the
// result. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, scenario *Scenario) []string {
	var errors []string

	for i, assertion := range scenario.Assertions {
		var err error

		switch assertion.Type {
		case AssertStamps:
			err = assertStamps(result, assertion)
		case AssertNoStamps:
			err = assertNoStamps(result, assertion.Rows)
		case AssertColumnCount:
			err = assertColumnCount(result, assertion)
		case AssertColumnLabel:
			err = assertColumnLabel(result, assertion)
		case AssertColumnAbsent:
			err = assertColumnAbsent(result, assertion)
		case AssertErrorCode:
			err = assertErrorCode(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	if scenario.Exhaustive {
		if err := assertExhaustive(result, scenario.Assertions); err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

// sameSet reports whether a and b hold the same names, ignoring order.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
