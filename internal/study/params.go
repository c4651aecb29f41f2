package study

import (
	"path"
	"strconv"
	"strings"

	"github.com/roach88/panelstudy/internal/dataset"
)

// Config is the raw run configuration as supplied by the caller.
type Config struct {
	// K is the number of counted repetitions per state and panel (>= 1).
	K int `json:"k" yaml:"k"`

	// L is the number of distinguished lag periods (>= 0).
	L int `json:"l" yaml:"l"`

	Event string `json:"event" yaml:"event"`
	State string `json:"state" yaml:"state"`
	Panel string `json:"panel" yaml:"panel"`
	Time  string `json:"time" yaml:"time"`

	// Workers is the number of panel partitions swept concurrently.
	// Zero or one means a single sequential pass.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Params is a validated Config bound to one Store. It is immutable after
// NewParams returns.
type Params struct {
	K, L    int
	Event   string
	State   string
	Panel   string
	Time    string
	Workers int
}

// NewParams validates cfg against st.
//
// Checks, in order:
//   - K >= 1 and L >= 0
//   - Workers >= 0
//   - all four columns exist
//   - no input column falls inside the output namespace <event>_*
//   - the declared sort key starts with (panel, time)
//
// The first failing check is returned as a *ConfigurationError. Column names
// are canonicalized the way the store names its columns.
func NewParams(cfg Config, st Store) (*Params, error) {
	if cfg.K < 1 {
		return nil, newConfigError(ErrCodeInvalidK, "K", strconv.Itoa(cfg.K), "K (%d) cannot be < 1", cfg.K)
	}
	if cfg.L < 0 {
		return nil, newConfigError(ErrCodeInvalidL, "L", strconv.Itoa(cfg.L), "L (%d) cannot be < 0", cfg.L)
	}
	if cfg.Workers < 0 {
		return nil, newConfigError(ErrCodeInvalidWorkers, "workers", strconv.Itoa(cfg.Workers), "workers (%d) cannot be < 0", cfg.Workers)
	}

	roles := []struct{ param, name string }{
		{"event", cfg.Event},
		{"state", cfg.State},
		{"panel", cfg.Panel},
		{"time", cfg.Time},
	}
	for i := range roles {
		r := &roles[i]
		r.name = dataset.NormalizeName(r.name)
		if r.name == "" {
			return nil, newConfigError(ErrCodeUnknownColumn, r.param, r.name, "%s column is required", r.param)
		}
		if !st.HasColumn(r.name) {
			return nil, newConfigError(ErrCodeUnknownColumn, r.param, r.name, "%s column %q not found", r.param, r.name)
		}
	}

	p := &Params{
		K:       cfg.K,
		L:       cfg.L,
		Event:   roles[0].name,
		State:   roles[1].name,
		Panel:   roles[2].name,
		Time:    roles[3].name,
		Workers: cfg.Workers,
	}

	for _, r := range roles[1:] {
		if ok, _ := path.Match(p.Namespace(), r.name); ok {
			return nil, newConfigError(ErrCodeReservedColumn, r.param, r.name,
				"%s column %q lies in the output namespace %s", r.param, r.name, p.Namespace())
		}
	}

	key := st.DeclaredSortKey()
	if len(key) < 2 || key[0] != p.Panel || key[1] != p.Time {
		return nil, newConfigError(ErrCodeNotSorted, "sortedby", strings.Join(key, " "),
			"data not sorted for panel (%s) and time (%s) variables", p.Panel, p.Time)
	}

	return p, nil
}

// Namespace is the glob pattern covering every output column of the event.
func (p *Params) Namespace() string {
	return p.Event + "_*"
}

// ColumnsPerState is the number of output columns each state receives.
func (p *Params) ColumnsPerState() int {
	return p.K * (p.L + 1)
}
