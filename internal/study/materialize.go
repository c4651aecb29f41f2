package study

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/panelstudy/internal/dataset"
)

// Materialize prepares the store for a sweep.
//
// Preparation runs once, before any creation: every column matching the
// event's output namespace is dropped, so a rerun with different K or L
// leaves nothing stale behind. Then one zero-filled byte column is created
// and labeled per registry key, in ascending (state, k, l) order.
//
// Returns the dropped and the created column names. The first store failure
// aborts the phase.
func Materialize(st Store, p *Params, reg *Registry, logger *slog.Logger) (dropped, created []string, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	dropped, err = st.DropColumnsMatching(p.Namespace())
	if err != nil {
		return nil, nil, &StoreError{Op: "drop", Column: p.Namespace(), Err: err}
	}
	logger.Info("dropped stale columns", "pattern", p.Namespace(), "count", len(dropped))

	labels := st.ValueLabels(p.State)
	created = make([]string, 0, reg.Len())
	for _, key := range reg.Keys() {
		logger.Debug("materializing column", "s", key.State, "k", key.K, "l", key.L)

		name := reg.Name(key)
		if err := st.CreateColumn(name, dataset.KindByte); err != nil {
			return dropped, created, &StoreError{Op: "create", Column: name, Err: err}
		}
		created = append(created, name)

		if err := st.SetColumnLabel(name, columnLabel(labels, p, key)); err != nil {
			return dropped, created, &StoreError{Op: "label", Column: name, Err: err}
		}
	}

	return dropped, created, nil
}

// columnLabel renders "<event> <state> k=1 L=2". Without any value labels on
// the state column the state is "s=<value>"; otherwise it is the value's label,
// or the bare number for an unlabeled value. Upper-case K or L marks the
// bucket that absorbs overflow.
func columnLabel(labels map[int]string, p *Params, key Key) string {
	state := fmt.Sprintf("s=%d", key.State)
	if len(labels) > 0 {
		state = strconv.Itoa(key.State)
		if text, ok := labels[key.State]; ok {
			state = text
		}
	}

	kMark, lMark := "k", "l"
	if key.K == p.K {
		kMark = "K"
	}
	if key.L == p.L {
		lMark = "L"
	}
	return fmt.Sprintf("%s %s %s=%d %s=%d", p.Event, state, kMark, key.K, lMark, key.L)
}
