package planner

import (
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/avallet/chronoplan/core/ledger"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/priority"
)

// FairnessAllocator processes tasks grouped by due date in ascending
// deadline order. When a group's demand exceeds the capacity available
// before its deadline, each task receives a proportional share weighted by
// importance*2 + (5 - complexity) instead of the first task starving the
// rest. Tasks without a due date run last through the greedy per-task walk.
type FairnessAllocator struct{}

// Allocate implements Allocator.
func (FairnessAllocator) Allocate(ranked []priority.Scored, led *ledger.Ledger, today time.Time) ([]model.Allocation, []model.ShortfallRecord) {
	var allocations []model.Allocation
	var shortfalls []model.ShortfallRecord

	groups, open := groupByDueDate(ranked)
	for _, g := range groups {
		estimates := make([]float64, len(g.tasks))
		for i, t := range g.tasks {
			estimates[i] = t.EstimatedHours
		}
		need := floats.Sum(estimates)
		avail := led.CapacityThrough(g.due)

		if avail >= need {
			for _, t := range g.tasks {
				allocateTask(t, led, &allocations)
			}
			continue
		}

		targets := rationByWeight(g.tasks, avail)
		for i, t := range g.tasks {
			capped := t
			capped.EstimatedHours = targets[i]
			allocated := allocateTask(capped, led, &allocations)
			if sf := shortfallFor(t, allocated, today); sf != nil {
				shortfalls = append(shortfalls, *sf)
			}
		}
	}

	// Open-ended tasks soak up whatever remains and never shortfall.
	for _, t := range open {
		allocateTask(t, led, &allocations)
	}
	return allocations, shortfalls
}

type dueGroup struct {
	due   time.Time
	tasks []model.Task
}

// groupByDueDate splits ranked tasks into due-date groups sorted ascending
// by deadline, preserving priority order inside each group, and returns the
// no-deadline tasks separately.
func groupByDueDate(ranked []priority.Scored) ([]dueGroup, []model.Task) {
	byDue := make(map[time.Time]*dueGroup)
	var order []time.Time
	var open []model.Task
	for _, s := range ranked {
		t := s.Task
		if t.DueDate == nil {
			open = append(open, t)
			continue
		}
		d := model.Midnight(*t.DueDate)
		g, ok := byDue[d]
		if !ok {
			g = &dueGroup{due: d}
			byDue[d] = g
			order = append(order, d)
		}
		g.tasks = append(g.tasks, t)
	}
	sortDates(order)
	groups := make([]dueGroup, len(order))
	for i, d := range order {
		groups[i] = *byDue[d]
	}
	return groups, open
}

// rationByWeight splits avail hours across tasks proportionally to
// importance*2 + (5 - complexity), capping each share at the task's own
// estimate. A zero total weight degrades to an equal split.
func rationByWeight(tasks []model.Task, avail float64) []float64 {
	weights := make([]float64, len(tasks))
	for i, t := range tasks {
		weights[i] = float64(t.Importance)*2 + float64(5-t.Complexity)
	}
	total := floats.Sum(weights)
	targets := make([]float64, len(tasks))
	for i, t := range tasks {
		share := avail / float64(len(tasks))
		if total > 0 {
			share = avail * weights[i] / total
		}
		if share > t.EstimatedHours {
			share = t.EstimatedHours
		}
		targets[i] = share
	}
	return targets
}
