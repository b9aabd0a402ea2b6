package mapreduce

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of an executor. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Worker metrics
	WorkersSpawned prometheus.Counter
	WorkersActive  prometheus.Gauge
	WorkerDuration prometheus.Histogram
	WorkerFailures *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. Use
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapreduce_runs_total",
				Help: "Total number of executor runs by outcome",
			},
			[]string{"outcome"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mapreduce_run_duration_seconds",
				Help:    "Executor run duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		WorkersSpawned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mapreduce_workers_spawned_total",
				Help: "Total number of workers spawned",
			},
		),
		WorkersActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mapreduce_workers_active",
				Help: "Number of workers currently running",
			},
		),
		WorkerDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mapreduce_worker_duration_seconds",
				Help:    "Worker run time in seconds",
				Buckets: []float64{.0001, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		WorkerFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mapreduce_worker_failures_total",
				Help: "Total number of failed workers by kind (error, fault)",
			},
			[]string{"kind"},
		),
	}
}

func (m *Metrics) workerStarted() {
	if m == nil {
		return
	}
	m.WorkersSpawned.Inc()
	m.WorkersActive.Inc()
}

func (m *Metrics) workerFinished(h *WorkerHandle) {
	if m == nil {
		return
	}
	m.WorkersActive.Dec()
	m.WorkerDuration.Observe(h.finished.Sub(h.started).Seconds())
	switch {
	case h.fault != nil:
		m.WorkerFailures.WithLabelValues("fault").Inc()
	case h.err != nil:
		m.WorkerFailures.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) runFinished(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}
