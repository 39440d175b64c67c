package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avallet/chronoplan/core/events"
	"github.com/avallet/chronoplan/core/logger"
	"github.com/avallet/chronoplan/core/metrics"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/planner/logging"
	"github.com/avallet/chronoplan/core/priority"
	"github.com/avallet/chronoplan/internal/eventbus"

	ledgerpkg "github.com/avallet/chronoplan/core/ledger"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// Manager orchestrates planning runs: it sanitizes inputs, ranks tasks,
// runs the configured allocation strategy against a working copy of the
// capacity ledger and reports the outcome to the event bus, metrics sinks
// and the plan log. It never mutates the caller's task or free-time
// collections.
type Manager struct {
	policy    Policy
	alloc     Allocator
	scorer    priority.Scorer
	threshold float64
	logger    logger.Logger
	sink      metrics.MetricsSink
	bus       eventbus.EventBus
	store     logging.LogStore
	history   []Plan
	mu        sync.Mutex
}

// NewManager creates a manager for the given configuration. The sink, bus
// and log are optional; nil values disable the corresponding reporting.
func NewManager(cfg Config, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Manager, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alloc, err := AllocatorFor(Policy(cfg.Policy))
	if err != nil {
		return nil, err
	}
	var scorer priority.Scorer
	switch cfg.Scorer {
	case "deadline_weighted":
		scorer = priority.DeadlineWeightedCalculator{}
	default:
		c := priority.NewCalculator()
		c.NoDueDateSentinelDays = cfg.NoDueDateSentinelDays
		scorer = c
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Manager{
		policy:    Policy(cfg.Policy),
		alloc:     alloc,
		scorer:    scorer,
		threshold: cfg.LargeTaskThresholdHours,
		logger:    log,
		sink:      sink,
		bus:       bus,
	}, nil
}

// SetLogStore configures the store used to persist plan records.
func (m *Manager) SetLogStore(store logging.LogStore) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()
}

// Policy returns the configured allocation policy.
func (m *Manager) Policy() Policy { return m.policy }

// Run executes one planning pass over snapshots of the given tasks and
// free-time windows. Re-running with identical inputs yields an identical
// plan; the authoritative collections are never modified.
func (m *Manager) Run(ctx context.Context, tasks []model.Task, free []model.FreeTimeWindow, today time.Time) Plan {
	today = model.Midnight(today)

	clean := make([]model.Task, 0, len(tasks))
	demand := 0.0
	for _, t := range tasks {
		s := t.Sanitize()
		if err := s.Validate(); err != nil {
			m.logger.Warnf("skipping task %s: %v", t.ID, err)
			continue
		}
		clean = append(clean, s)
		demand += s.EstimatedHours
	}

	led := ledgerpkg.New(free)
	plan := Plan{
		Policy:        m.policy,
		Today:         today,
		TotalCapacity: led.Total(),
		TotalDemand:   demand,
	}

	plan.LargeTaskIDs = LargeTasks(clean, m.threshold)
	large := make(map[string]float64, len(plan.LargeTaskIDs))
	for _, t := range clean {
		large[t.ID] = t.EstimatedHours
	}
	for _, id := range plan.LargeTaskIDs {
		plan.Warnings = append(plan.Warnings, model.Warning{
			Kind:    model.WarnLargeTask,
			TaskID:  id,
			Message: fmt.Sprintf("task exceeds %.1fh and should probably be split unless it is a work block", m.threshold),
		})
		if m.bus != nil {
			m.bus.Publish(events.LargeTaskEvent{TaskID: id, Hours: large[id]})
		}
	}

	ranked := priority.Rank(clean, today, m.scorer)
	plan.Allocations, plan.Shortfalls = m.alloc.Allocate(ranked, led, today)

	for _, sf := range plan.Shortfalls {
		plan.Warnings = append(plan.Warnings, model.Warning{
			Kind:   model.WarnShortfall,
			TaskID: sf.TaskID,
			Message: fmt.Sprintf("%s (due %s) needs %.1fh but only %.1fh scheduled before due date",
				sf.Name, sf.DueDate.Format("2006-01-02"), sf.TotalHours, sf.AllocatedHours),
		})
		if m.bus != nil {
			m.bus.Publish(events.ShortfallEvent{Record: sf})
		}
	}

	if m.bus != nil {
		m.bus.Publish(events.RunEvent{
			Policy:      string(m.policy),
			Today:       today,
			Tasks:       len(clean),
			Allocations: len(plan.Allocations),
			Shortfalls:  len(plan.Shortfalls),
		})
	}

	m.record(ctx, plan, len(clean))

	m.mu.Lock()
	m.history = append(m.history, plan)
	m.mu.Unlock()

	m.logger.Debugw("plan computed", map[string]any{
		"policy":      string(m.policy),
		"tasks":       len(clean),
		"allocations": len(plan.Allocations),
		"shortfalls":  len(plan.Shortfalls),
	})
	return plan
}

func (m *Manager) record(ctx context.Context, plan Plan, taskCount int) {
	observePlan(plan, taskCount)

	short := 0.0
	for _, s := range plan.Shortfalls {
		short += s.UnallocatedHours
	}
	run := metrics.PlanRun{
		Policy:         string(plan.Policy),
		Today:          plan.Today,
		RunAt:          time.Now().UTC(),
		Tasks:          taskCount,
		Allocations:    plan.Allocations,
		ShortfallHours: short,
		LargeTasks:     len(plan.LargeTaskIDs),
		TotalCapacity:  plan.TotalCapacity,
		TotalDemand:    plan.TotalDemand,
	}
	if err := m.sink.RecordPlanRun(run); err != nil {
		m.logger.Errorf("record plan run: %v", err)
	}
	if rec, ok := m.sink.(metrics.ShortfallRecorder); ok && len(plan.Shortfalls) > 0 {
		if err := rec.RecordShortfalls(plan.Shortfalls); err != nil {
			m.logger.Errorf("record shortfalls: %v", err)
		}
	}

	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store != nil {
		rec := logging.PlanRecord{
			Timestamp:    run.RunAt,
			Today:        plan.Today,
			Policy:       string(plan.Policy),
			Allocations:  plan.Allocations,
			Shortfalls:   plan.Shortfalls,
			LargeTaskIDs: plan.LargeTaskIDs,
		}
		if err := store.Append(ctx, rec); err != nil {
			m.logger.Errorf("append plan log: %v", err)
		}
	}
}

// History returns the plans computed by this manager in run order.
func (m *Manager) History() []Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Plan, len(m.history))
	copy(cp, m.history)
	return cp
}

// LastPlan returns the most recent plan, or false when no run has happened.
func (m *Manager) LastPlan() (Plan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Plan{}, false
	}
	return m.history[len(m.history)-1], true
}

// Close releases resources held by the manager.
func (m *Manager) Close() error {
	if m.bus != nil {
		m.bus.Close()
	}
	m.mu.Lock()
	store := m.store
	m.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}
