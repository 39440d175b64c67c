package metrics

import (
	"testing"

	coremetrics "github.com/avallet/chronoplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPromSink_RecordPlanRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	run := coremetrics.PlanRun{
		Policy:         "fairness",
		Tasks:          4,
		ShortfallHours: 2.5,
		LargeTasks:     1,
		TotalCapacity:  6,
		TotalDemand:    8.5,
	}
	require.NoError(t, sink.RecordPlanRun(run))
	require.NoError(t, sink.RecordPlanRun(run))

	ps := sink.(*PromSink)
	require.Equal(t, 2.0, testutil.ToFloat64(ps.runs.WithLabelValues("fairness")))
	require.Equal(t, 2.5, testutil.ToFloat64(ps.shortfall.WithLabelValues("fairness")))
	require.Equal(t, 8.5, testutil.ToFloat64(ps.demand.WithLabelValues("fairness")))
	require.Equal(t, 6.0, testutil.ToFloat64(ps.capacity.WithLabelValues("fairness")))
	require.Equal(t, 1.0, testutil.ToFloat64(ps.large.WithLabelValues("fairness")))
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("re-registration should reuse existing collectors: %v", err)
	}
}
