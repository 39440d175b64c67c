package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/avallet/chronoplan/core/logger"
	"github.com/avallet/chronoplan/core/planner"
	"github.com/avallet/chronoplan/core/store"
)

// Scheduler re-runs the planner on a fixed interval so the plan tracks
// changes made to the stores between runs.
type Scheduler struct {
	Config  Config
	Manager *planner.Manager
	Tasks   store.TaskStore
	Free    store.FreeTimeStore
	Log     logger.Logger
}

// Run executes one planning pass per interval until the context is
// cancelled. The first pass runs immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Config.IntervalMinutes <= 0 {
		return errors.New("interval_minutes must be positive")
	}
	if s.Manager == nil || s.Tasks == nil || s.Free == nil {
		return errors.New("scheduler needs a manager and both stores")
	}

	ticker := time.NewTicker(time.Duration(s.Config.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	plan := s.Manager.Run(ctx, s.Tasks.List(), s.Free.List(), time.Now().UTC())
	if s.Log != nil {
		s.Log.Debugw("scheduled replan", map[string]any{
			"allocations": len(plan.Allocations),
			"shortfalls":  len(plan.Shortfalls),
		})
	}
}
