// Package metrics exposes Prometheus instrumentation for the propagation
// engine and the consistency validator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kcmap"

// Metrics holds the Prometheus collectors for watch mode.
type Metrics struct {
	// RunsTotal counts propagation runs by outcome.
	// Labels: status (success, error)
	RunsTotal *prometheus.CounterVec

	// RunDurationSeconds measures how long a full propagation run takes.
	RunDurationSeconds prometheus.Histogram

	// DerivedFacts reports the fact counts of the most recent run.
	// Labels: kind (edge, operation)
	DerivedFacts *prometheus.GaugeVec

	// Iterations reports the sweep count of the most recent run.
	Iterations prometheus.Gauge

	// ConsistencyFailures counts failed consistency checks by check name.
	ConsistencyFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "propagation_runs_total",
				Help:      "Total number of propagation runs by status",
			},
			[]string{"status"},
		),
		RunDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "propagation_run_duration_seconds",
				Help:      "Duration of a full propagation run in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
		DerivedFacts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "derived_facts",
				Help:      "Facts derived by the most recent propagation run",
			},
			[]string{"kind"},
		),
		Iterations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "propagation_iterations",
				Help:      "Sweeps the most recent propagation run needed to converge",
			},
		),
		ConsistencyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "consistency_failures_total",
				Help:      "Total number of failed consistency checks by check name",
			},
			[]string{"check"},
		),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunDurationSeconds,
		m.DerivedFacts,
		m.Iterations,
		m.ConsistencyFailures,
	)

	return m
}

// RecordRun records the outcome of a propagation run.
func (m *Metrics) RecordRun(seconds float64, iterations, edgeFacts, opFacts int, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	if !success {
		return
	}
	m.RunDurationSeconds.Observe(seconds)
	m.Iterations.Set(float64(iterations))
	m.DerivedFacts.WithLabelValues("edge").Set(float64(edgeFacts))
	m.DerivedFacts.WithLabelValues("operation").Set(float64(opFacts))
}

// RecordConsistencyFailure records a failed consistency check.
func (m *Metrics) RecordConsistencyFailure(check string) {
	m.ConsistencyFailures.WithLabelValues(check).Inc()
}
