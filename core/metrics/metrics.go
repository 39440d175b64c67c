package metrics

import (
	"time"

	"github.com/avallet/chronoplan/core/model"
)

// PlanRun summarizes one planning run for observability purposes.
type PlanRun struct {
	Policy         string
	Today          time.Time
	RunAt          time.Time
	Tasks          int
	Allocations    []model.Allocation
	ShortfallHours float64
	LargeTasks     int
	TotalCapacity  float64
	TotalDemand    float64
}

// MetricsSink records planning runs for observability purposes.
type MetricsSink interface {
	RecordPlanRun(run PlanRun) error
}

// ShortfallRecorder is implemented by sinks able to record individual
// shortfall records.
type ShortfallRecorder interface {
	RecordShortfalls(recs []model.ShortfallRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanRun(PlanRun) error                    { return nil }
func (NopSink) RecordShortfalls([]model.ShortfallRecord) error { return nil }

// MultiSink fans out plan runs to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanRun forwards the run to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlanRun(run PlanRun) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanRun(run); err != nil {
			return err
		}
	}
	return nil
}

// RecordShortfalls forwards shortfall records to sinks that support them.
func (m *MultiSink) RecordShortfalls(recs []model.ShortfallRecord) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ShortfallRecorder); ok {
			if err := rec.RecordShortfalls(recs); err != nil {
				return err
			}
		}
	}
	return nil
}
