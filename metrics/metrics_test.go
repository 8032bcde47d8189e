package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRun(0.05, 3, 7, 2, true)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("expected 1 successful run, got %v", got)
	}
	if got := testutil.ToFloat64(m.Iterations); got != 3 {
		t.Errorf("expected 3 iterations, got %v", got)
	}
	if got := testutil.ToFloat64(m.DerivedFacts.WithLabelValues("edge")); got != 7 {
		t.Errorf("expected 7 edge facts, got %v", got)
	}
	if got := testutil.ToFloat64(m.DerivedFacts.WithLabelValues("operation")); got != 2 {
		t.Errorf("expected 2 operation facts, got %v", got)
	}
}

func TestRecordRunFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRun(0, 0, 0, 0, false)

	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 0 {
		t.Errorf("expected 0 successful runs, got %v", got)
	}
}

func TestRecordRunOverwritesGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRun(0.01, 5, 10, 4, true)
	m.RecordRun(0.01, 2, 0, 0, true)

	if got := testutil.ToFloat64(m.Iterations); got != 2 {
		t.Errorf("expected gauge to reflect latest run, got %v iterations", got)
	}
	if got := testutil.ToFloat64(m.DerivedFacts.WithLabelValues("edge")); got != 0 {
		t.Errorf("expected 0 edge facts after latest run, got %v", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("expected 2 successful runs, got %v", got)
	}
}

func TestRecordConsistencyFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordConsistencyFailure("adjacency")
	m.RecordConsistencyFailure("adjacency")
	m.RecordConsistencyFailure("operations")

	if got := testutil.ToFloat64(m.ConsistencyFailures.WithLabelValues("adjacency")); got != 2 {
		t.Errorf("expected 2 adjacency failures, got %v", got)
	}
	if got := testutil.ToFloat64(m.ConsistencyFailures.WithLabelValues("operations")); got != 1 {
		t.Errorf("expected 1 operations failure, got %v", got)
	}
}
