package planner

import (
	"time"

	"github.com/avallet/chronoplan/core/ledger"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/priority"
)

// GreedyAllocator walks tasks in priority order and fills each from the
// earliest eligible window until the task is placed or its eligible capacity
// runs out. This is the default policy: earlier tasks in the ordering take
// everything they need before later tasks see the ledger.
type GreedyAllocator struct{}

// Allocate implements Allocator.
func (GreedyAllocator) Allocate(ranked []priority.Scored, led *ledger.Ledger, today time.Time) ([]model.Allocation, []model.ShortfallRecord) {
	var allocations []model.Allocation
	var shortfalls []model.ShortfallRecord
	for _, s := range ranked {
		t := s.Task
		allocated := allocateTask(t, led, &allocations)
		if sf := shortfallFor(t, allocated, today); sf != nil {
			shortfalls = append(shortfalls, *sf)
		}
	}
	return allocations, shortfalls
}

// allocateTask draws the task's remaining hours from the ledger, bounded by
// its due date, and appends the resulting allocations. It returns the hours
// actually placed.
func allocateTask(t model.Task, led *ledger.Ledger, out *[]model.Allocation) float64 {
	if t.EstimatedHours <= 0 {
		return 0
	}
	deadline := time.Time{}
	if t.DueDate != nil {
		deadline = *t.DueDate
	}
	allocated := 0.0
	for _, d := range led.Consume(deadline, t.EstimatedHours) {
		*out = append(*out, model.Allocation{TaskID: t.ID, Date: d.Date, AllocatedHours: d.Hours})
		allocated += d.Hours
	}
	return allocated
}
