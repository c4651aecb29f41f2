package study

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// span is a half-open row range [lo, hi) that starts on a panel boundary
// and ends on one.
type span struct {
	lo, hi int
}

// partition splits rows into at most n spans of roughly equal size. A panel
// is never split across spans.
func partition(obs []observation, n int, isMissing func(float64) bool) []span {
	total := len(obs)
	if total == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	target := (total + n - 1) / n
	same := func(a, b float64) bool { return a == b || (isMissing(a) && isMissing(b)) }

	var spans []span
	lo := 0
	for lo < total {
		hi := lo + target
		if hi >= total {
			spans = append(spans, span{lo, total})
			break
		}
		for hi < total && same(obs[hi-1].panel, obs[hi].panel) {
			hi++
		}
		spans = append(spans, span{lo, hi})
		lo = hi
	}
	return spans
}

type stamp struct {
	row int
	key Key
}

// sweepParallel sweeps panel-aligned partitions concurrently. Workers only
// read observations and fill private buffers; the store is written by the
// calling goroutine afterwards, in row order.
func sweepParallel(ctx context.Context, st Store, p *Params, reg *Registry, obs []observation, logger *slog.Logger) (sweepStats, error) {
	spans := partition(obs, p.Workers, st.IsMissing)
	buffers := make([][]stamp, len(spans))
	stats := make([]sweepStats, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	for i, sp := range spans {
		g.Go(func() error {
			s := newSweeper(reg, p, st.IsMissing)
			emit := func(row int, key Key) error {
				buffers[i] = append(buffers[i], stamp{row: row, key: key})
				return nil
			}
			if err := s.sweep(obs, sp.lo, sp.hi, emit, nil); err != nil {
				return err
			}
			stats[i] = s.stats
			logger.Debug("partition swept", "partition", i, "rows", sp.hi-sp.lo, "stamps", len(buffers[i]))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return sweepStats{}, err
	}

	var total sweepStats
	for i, buf := range buffers {
		for _, sm := range buf {
			name := reg.Name(sm.key)
			if err := st.WriteCell(name, sm.row, 1); err != nil {
				return total, &StoreError{Op: "write", Column: name, Err: err}
			}
		}
		total.add(stats[i])
		logger.Info("sweep progress", "rows", spans[i].hi, "total", len(obs))
	}
	return total, nil
}
