package metrics

import (
	"net/http"
	"time"

	coremetrics "github.com/avallet/chronoplan/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink records planning runs in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	shortfall *prometheus.GaugeVec
	demand    *prometheus.GaugeVec
	capacity  *prometheus.GaugeVec
	large     *prometheus.GaugeVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The scrape endpoint is started separately via StartPromServer.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_runs_total",
		Help: "Total number of planning runs",
	}, []string{"policy"})
	shortfall := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_shortfall_hours",
		Help: "Unallocated hours in the most recent planning run",
	}, []string{"policy"})
	demand := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_demand_hours",
		Help: "Total estimated hours submitted to the most recent run",
	}, []string{"policy"})
	capacity := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_capacity_hours",
		Help: "Total free-time hours available to the most recent run",
	}, []string{"policy"})
	large := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_large_tasks",
		Help: "Tasks flagged for breakdown in the most recent run",
	}, []string{"policy"})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	gauges := []**prometheus.GaugeVec{&shortfall, &demand, &capacity, &large}
	for _, g := range gauges {
		if err := reg.Register(*g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*g = are.ExistingCollector.(*prometheus.GaugeVec)
			} else {
				return nil, err
			}
		}
	}
	return &PromSink{runs: runs, shortfall: shortfall, demand: demand, capacity: capacity, large: large}, nil
}

// RecordPlanRun updates all collectors from the run summary.
func (s *PromSink) RecordPlanRun(run coremetrics.PlanRun) error {
	s.runs.WithLabelValues(run.Policy).Inc()
	s.shortfall.WithLabelValues(run.Policy).Set(run.ShortfallHours)
	s.demand.WithLabelValues(run.Policy).Set(run.TotalDemand)
	s.capacity.WithLabelValues(run.Policy).Set(run.TotalCapacity)
	s.large.WithLabelValues(run.Policy).Set(float64(run.LargeTasks))
	return nil
}

// StartPromServer exposes /metrics on the given port using the default
// registry. It returns the server so callers can shut it down.
func StartPromServer(port string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
