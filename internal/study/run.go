package study

import (
	"context"
	"log/slog"
	"time"
)

// Result summarizes a completed run.
type Result struct {
	RunID  string
	Params Params

	// States are the discovered state values, ascending.
	States []int

	// Dropped are the stale columns removed before materialization.
	Dropped []string

	// Columns are the created output columns in (state, k, l) order.
	Columns []string

	Rows    int
	Skipped int
	Events  int
	Stamps  int

	Elapsed time.Duration
}

// MetricsSink receives the summary of every completed run.
type MetricsSink interface {
	RecordRun(res *Result)
}

// Runner executes event-study runs against one Store.
type Runner struct {
	store         Store
	logger        *slog.Logger
	metrics       MetricsSink
	ids           RunIDGenerator
	progressEvery int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the progress/log sink. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics sets a sink for run summaries.
func WithMetrics(m MetricsSink) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithRunIDGenerator overrides the UUIDv7 run ID generator (for testing).
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(r *Runner) { r.ids = g }
}

// WithProgressEvery sets the row interval between progress log lines.
func WithProgressEvery(n int) Option {
	return func(r *Runner) { r.progressEvery = n }
}

// New creates a Runner over st.
func New(st Store, opts ...Option) *Runner {
	r := &Runner{
		store:         st,
		ids:           UUIDv7Generator{},
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.progressEvery < 1 {
		r.progressEvery = DefaultProgressEvery
	}
	return r
}

// Run validates cfg, discovers states, materializes every output column and
// fills them in one sweep. On failure, columns already created stay in the
// store.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	start := time.Now()

	p, err := NewParams(cfg, r.store)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: r.ids.Generate(), Params: *p}
	logger := r.logger.With("run_id", res.RunID, "event", p.Event)
	logger.Info("study starting", "K", p.K, "L", p.L, "state", p.State, "panel", p.Panel, "time", p.Time, "rows", r.store.RowCount())

	res.States, err = DiscoverStates(r.store, p.State)
	if err != nil {
		return nil, err
	}
	logger.Info("states discovered", "count", len(res.States))

	reg := NewRegistry(p.Event, res.States, p.K, p.L)
	res.Dropped, res.Columns, err = Materialize(r.store, p, reg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("columns materialized", "count", len(res.Columns))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obs, err := loadObservations(r.store, p)
	if err != nil {
		return nil, err
	}

	var stats sweepStats
	if p.Workers > 1 {
		stats, err = sweepParallel(ctx, r.store, p, reg, obs, logger)
	} else {
		stats, err = sweepSequential(ctx, r.store, p, reg, obs, r.progressEvery, logger)
	}
	if err != nil {
		return nil, err
	}

	res.Rows = stats.rows
	res.Skipped = stats.skipped
	res.Events = stats.events
	res.Stamps = stats.stamps
	res.Elapsed = time.Since(start)

	logger.Info("study complete",
		"rows", res.Rows,
		"skipped", res.Skipped,
		"events", res.Events,
		"stamps", res.Stamps,
		"elapsed", res.Elapsed)

	if r.metrics != nil {
		r.metrics.RecordRun(res)
	}
	return res, nil
}

// Run is a convenience wrapper for New(st, WithLogger(logger)).Run(ctx, cfg).
func Run(ctx context.Context, cfg Config, st Store, logger *slog.Logger) (*Result, error) {
	return New(st, WithLogger(logger)).Run(ctx, cfg)
}
