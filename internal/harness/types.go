package harness

// RowStamps lists the output columns set to 1 on one row.
type RowStamps struct {
	Row     int      `json:"row"` // 1-based
	Columns []string `json:"columns"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// RunID is the run identifier, empty if the run failed.
	RunID string `json:"run_id,omitempty"`

	// ErrorCode is the configuration error code if the run was rejected.
	ErrorCode string `json:"error_code,omitempty"`

	// Columns are the output columns present after the run, in storage order.
	Columns []string `json:"columns"`

	// Labels maps output column to its label.
	Labels map[string]string `json:"labels,omitempty"`

	// Stamps lists every row with at least one stamp, ascending.
	Stamps []RowStamps `json:"stamps"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	names []string // every column after the run
	byRow map[int][]string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Columns: []string{},
		Labels:  make(map[string]string),
		Stamps:  []RowStamps{},
		Errors:  []string{},
		byRow:   make(map[int][]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// StampsAt returns the output columns stamped on a 1-based row.
func (r *Result) StampsAt(row int) []string {
	return r.byRow[row]
}

func (r *Result) hasColumn(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}
