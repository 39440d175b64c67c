package planner

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	planRuns       *prometheus.CounterVec
	tasksPlanned   *prometheus.CounterVec
	shortfallHours *prometheus.GaugeVec
	allocatedHours *prometheus.HistogramVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.GaugeVec, *prometheus.HistogramVec) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_runs_total",
			Help: "Number of planning runs executed",
		},
		[]string{"policy"},
	)
	tasks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_tasks_total",
			Help: "Number of tasks processed by planning runs",
		},
		[]string{"policy"},
	)
	short := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "plan_shortfall_hours",
			Help: "Unallocated hours reported by the most recent planning run",
		},
		[]string{"policy"},
	)
	alloc := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plan_allocation_hours",
			Help:    "Distribution of per-window allocation sizes in hours",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8},
		},
		[]string{"policy"},
	)
	return runs, tasks, short, alloc
}

func init() {
	planRuns, tasksPlanned, shortfallHours, allocatedHours = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers planner metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(planRuns, tasksPlanned, shortfallHours, allocatedHours)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	planRuns, tasksPlanned, shortfallHours, allocatedHours = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func observePlan(p Plan, taskCount int) {
	policy := string(p.Policy)
	planRuns.WithLabelValues(policy).Inc()
	tasksPlanned.WithLabelValues(policy).Add(float64(taskCount))
	short := 0.0
	for _, s := range p.Shortfalls {
		short += s.UnallocatedHours
	}
	shortfallHours.WithLabelValues(policy).Set(short)
	for _, a := range p.Allocations {
		allocatedHours.WithLabelValues(policy).Observe(a.AllocatedHours)
	}
}
