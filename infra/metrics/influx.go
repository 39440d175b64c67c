package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/avallet/chronoplan/core/metrics"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/infra/logger"
)

// InfluxSink writes planning runs to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanRun writes the run summary as one point plus one point per
// allocation.
func (s *InfluxSink) RecordPlanRun(run coremetrics.PlanRun) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_run").
		AddTag("policy", run.Policy).
		AddTag("component", "planner").
		AddField("tasks", run.Tasks).
		AddField("allocations", len(run.Allocations)).
		AddField("shortfall_hours", round3(run.ShortfallHours)).
		AddField("large_tasks", run.LargeTasks).
		AddField("capacity_hours", round3(run.TotalCapacity)).
		AddField("demand_hours", round3(run.TotalDemand)).
		SetTime(run.RunAt)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, a := range run.Allocations {
		p := write.NewPointWithMeasurement("plan_allocation").
			AddTag("policy", run.Policy).
			AddTag("task_id", a.TaskID).
			AddTag("component", "planner").
			AddField("hours", round3(a.AllocatedHours)).
			AddField("date", a.Date.Format("2006-01-02")).
			SetTime(run.RunAt)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordShortfalls writes one point per unmet deadline.
func (s *InfluxSink) RecordShortfalls(recs []model.ShortfallRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now().UTC()
	for _, r := range recs {
		p := write.NewPointWithMeasurement("plan_shortfall").
			AddTag("task_id", r.TaskID).
			AddTag("reason", r.Reason.String()).
			AddTag("component", "planner").
			AddField("total_hours", round3(r.TotalHours)).
			AddField("allocated_hours", round3(r.AllocatedHours)).
			AddField("unallocated_hours", round3(r.UnallocatedHours)).
			AddField("due_date", r.DueDate.Format("2006-01-02")).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
