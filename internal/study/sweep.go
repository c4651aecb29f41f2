package study

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultProgressEvery is the row interval between progress log lines.
const DefaultProgressEvery = 1_000_000

// observation is the read-only view of one row used by the sweep.
type observation struct {
	panel float64
	time  float64
	state float64
	event float64
}

// sweepStats counts what a sweep did.
type sweepStats struct {
	rows    int
	skipped int
	events  int
	stamps  int
}

func (s *sweepStats) add(o sweepStats) {
	s.rows += o.rows
	s.skipped += o.skipped
	s.events += o.events
	s.stamps += o.stamps
}

// loadObservations reads the four input columns for every row.
func loadObservations(st Store, p *Params) ([]observation, error) {
	rows := st.RowCount()
	obs := make([]observation, rows)
	read := func(column string, row int) (float64, error) {
		v, err := st.ReadNumeric(column, row)
		if err != nil {
			return 0, &StoreError{Op: "read", Column: column, Err: err}
		}
		return v, nil
	}

	var err error
	for row := range obs {
		o := &obs[row]
		if o.panel, err = read(p.Panel, row); err != nil {
			return nil, err
		}
		if o.time, err = read(p.Time, row); err != nil {
			return nil, err
		}
		if o.state, err = read(p.State, row); err != nil {
			return nil, err
		}
		if o.event, err = read(p.Event, row); err != nil {
			return nil, err
		}
	}
	return obs, nil
}

// emitFunc receives one stamp: output column key set to 1 on row.
type emitFunc func(row int, key Key) error

// sweeper holds the per-panel scratch table.
//
// counter[ord] is the number of repetitions reached by the state with ordinal
// ord in the current panel, capped at K. first[ord*K + k-1] is the time of the
// first row at which that state reached repetition k; it is only meaningful
// for k <= counter[ord]. Both are cleared on every panel change.
type sweeper struct {
	reg       *Registry
	k, l      int
	isMissing func(float64) bool

	counter []int
	first   []int64
	active  []int // ordinals with counter > 0, ascending

	stats sweepStats
}

func newSweeper(reg *Registry, p *Params, isMissing func(float64) bool) *sweeper {
	n := len(reg.States())
	return &sweeper{
		reg:       reg,
		k:         p.K,
		l:         p.L,
		isMissing: isMissing,
		counter:   make([]int, n),
		first:     make([]int64, n*p.K),
	}
}

// reset clears the scratch table at a panel boundary.
func (s *sweeper) reset() {
	for _, ord := range s.active {
		s.counter[ord] = 0
	}
	s.active = s.active[:0]
}

func (s *sweeper) samePanel(a, b float64) bool {
	return a == b || (s.isMissing(a) && s.isMissing(b))
}

// sweep processes rows [lo, hi). lo must be the first row of a panel.
// progress, when non-nil, is called after each row with the absolute row
// position; a non-nil error from it stops the sweep.
func (s *sweeper) sweep(obs []observation, lo, hi int, emit emitFunc, progress func(row int) error) error {
	for i := lo; i < hi; i++ {
		o := obs[i]
		if i == lo || !s.samePanel(obs[i-1].panel, o.panel) {
			s.reset()
		}
		s.stats.rows++

		if err := s.row(i, o, emit); err != nil {
			return err
		}
		if progress != nil {
			if err := progress(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *sweeper) row(i int, o observation, emit emitFunc) error {
	if s.isMissing(o.state) || s.isMissing(o.event) || s.isMissing(o.time) {
		s.stats.skipped++
		return nil
	}
	now := int64(o.time)

	if o.event == 1 {
		s.stats.events++
		state := int(o.state)
		ord, ok := s.reg.Ordinal(state)
		if !ok {
			return fmt.Errorf("row %d: state %d was not discovered", i, state)
		}
		if s.counter[ord] == 0 {
			s.activate(ord)
		}
		// Repetitions past K collapse into K; the K-th first-occurrence time
		// is never overwritten.
		if s.counter[ord] < s.k {
			s.counter[ord]++
			s.first[ord*s.k+s.counter[ord]-1] = now
		}
	}

	states := s.reg.States()
	for _, ord := range s.active {
		for k := 1; k <= s.counter[ord]; k++ {
			lag := now - s.first[ord*s.k+k-1]
			if lag < 0 {
				continue
			}
			if lag > int64(s.l) {
				lag = int64(s.l)
			}
			if err := emit(i, Key{State: states[ord], K: k, L: int(lag)}); err != nil {
				return err
			}
			s.stats.stamps++
		}
	}
	return nil
}

// activate inserts ord into the ascending active list.
func (s *sweeper) activate(ord int) {
	pos := len(s.active)
	for pos > 0 && s.active[pos-1] > ord {
		pos--
	}
	s.active = append(s.active, 0)
	copy(s.active[pos+1:], s.active[pos:])
	s.active[pos] = ord
}

// sweepSequential runs one pass over all rows, writing stamps straight into
// the store.
func sweepSequential(ctx context.Context, st Store, p *Params, reg *Registry, obs []observation, every int, logger *slog.Logger) (sweepStats, error) {
	s := newSweeper(reg, p, st.IsMissing)
	total := len(obs)

	emit := func(row int, key Key) error {
		name := reg.Name(key)
		if err := st.WriteCell(name, row, 1); err != nil {
			return &StoreError{Op: "write", Column: name, Err: err}
		}
		return nil
	}
	progress := func(row int) error {
		if (row+1)%every != 0 {
			return nil
		}
		logger.Info("sweep progress", "rows", row+1, "total", total)
		return ctx.Err()
	}

	err := s.sweep(obs, 0, total, emit, progress)
	return s.stats, err
}
