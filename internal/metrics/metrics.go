// Package metrics exposes run counters for event-study runs on a private
// Prometheus registry. A batch CLI has no scrape endpoint, so the registry is
// written out in the text exposition format for a node-exporter textfile
// collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/panelstudy/internal/study"
)

const (
	namespace = "panelstudy"

	// LabelEvent is the event column name of a run.
	LabelEvent = "event"
)

// Recorder implements study.MetricsSink.
type Recorder struct {
	registry *prometheus.Registry

	runs           *prometheus.CounterVec
	rows           *prometheus.CounterVec
	skipped        *prometheus.CounterVec
	events         *prometheus.CounterVec
	stamps         *prometheus.CounterVec
	columns        *prometheus.GaugeVec
	states         *prometheus.GaugeVec
	duration       *prometheus.HistogramVec
	lastRunSeconds *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{LabelEvent})
	}
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{LabelEvent})
	}

	r := &Recorder{
		registry:       prometheus.NewRegistry(),
		runs:           counter("runs_total", "Completed event-study runs"),
		rows:           counter("rows_total", "Rows visited by the sweep"),
		skipped:        counter("rows_skipped_total", "Rows skipped for a missing state, event or time"),
		events:         counter("events_total", "Rows whose event value was 1"),
		stamps:         counter("stamps_total", "Output cells set to 1"),
		columns:        gauge("columns", "Output columns created by the last run"),
		states:         gauge("states", "Distinct states discovered by the last run"),
		lastRunSeconds: gauge("last_run_duration_seconds", "Wall time of the last run"),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of event-study runs",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{LabelEvent}),
	}

	r.registry.MustRegister(
		r.runs, r.rows, r.skipped, r.events, r.stamps,
		r.columns, r.states, r.duration, r.lastRunSeconds,
	)
	return r
}

// RecordRun implements study.MetricsSink.
func (r *Recorder) RecordRun(res *study.Result) {
	ev := res.Params.Event
	r.runs.WithLabelValues(ev).Inc()
	r.rows.WithLabelValues(ev).Add(float64(res.Rows))
	r.skipped.WithLabelValues(ev).Add(float64(res.Skipped))
	r.events.WithLabelValues(ev).Add(float64(res.Events))
	r.stamps.WithLabelValues(ev).Add(float64(res.Stamps))
	r.columns.WithLabelValues(ev).Set(float64(len(res.Columns)))
	r.states.WithLabelValues(ev).Set(float64(len(res.States)))
	r.duration.WithLabelValues(ev).Observe(res.Elapsed.Seconds())
	r.lastRunSeconds.WithLabelValues(ev).Set(res.Elapsed.Seconds())
}

// Gatherer returns the registry for inspection.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ study.MetricsSink = (*Recorder)(nil)
