// Package planner places estimated-duration tasks into available free-time
// windows. Two allocation strategies are provided behind the Allocator
// interface: a greedy first-come-first-served walk in priority order, and a
// deadline-group fairness split that rations capacity proportionally when
// tasks competing for the same due date do not all fit.
package planner

import (
	"fmt"
	"time"

	"github.com/avallet/chronoplan/core/ledger"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/priority"
)

// Policy names an allocation strategy.
type Policy string

const (
	// PolicyGreedy allocates tasks one at a time in priority order.
	PolicyGreedy Policy = "greedy"
	// PolicyFairness splits contended capacity proportionally across tasks
	// sharing a due date.
	PolicyFairness Policy = "fairness"
)

// Allocator consumes ranked tasks and a working ledger and produces
// allocations plus shortfall records for due-bearing tasks that did not fit.
type Allocator interface {
	Allocate(ranked []priority.Scored, led *ledger.Ledger, today time.Time) ([]model.Allocation, []model.ShortfallRecord)
}

// AllocatorFor returns the allocator implementing the named policy.
func AllocatorFor(p Policy) (Allocator, error) {
	switch p {
	case PolicyGreedy, "":
		return GreedyAllocator{}, nil
	case PolicyFairness:
		return FairnessAllocator{}, nil
	default:
		return nil, fmt.Errorf("planner: unknown policy %q", p)
	}
}

// Plan is the result of one planning run. It is recomputed from scratch on
// every run and never persisted by the core.
type Plan struct {
	Policy       Policy                  `json:"policy"`
	Today        time.Time               `json:"today"`
	Allocations  []model.Allocation      `json:"allocations"`
	Shortfalls   []model.ShortfallRecord `json:"shortfalls"`
	Warnings     []model.Warning         `json:"warnings"`
	LargeTaskIDs []string                `json:"large_task_ids"`

	// Capacity-versus-demand summary over the raw inputs.
	TotalCapacity float64 `json:"total_capacity"`
	TotalDemand   float64 `json:"total_demand"`
}

// OverCapacity returns the hours by which demand exceeds capacity, or 0.
func (p Plan) OverCapacity() float64 {
	if over := p.TotalDemand - p.TotalCapacity; over > 0 {
		return over
	}
	return 0
}

// DailyTotal is the sum of allocated hours for one date.
type DailyTotal struct {
	Date  time.Time `json:"date"`
	Hours float64   `json:"hours"`
}

// DailyTotals aggregates allocations per date in ascending date order.
func (p Plan) DailyTotals() []DailyTotal {
	byDate := make(map[time.Time]float64)
	var order []time.Time
	for _, a := range p.Allocations {
		d := model.Midnight(a.Date)
		if _, ok := byDate[d]; !ok {
			order = append(order, d)
		}
		byDate[d] += a.AllocatedHours
	}
	sortDates(order)
	out := make([]DailyTotal, len(order))
	for i, d := range order {
		out[i] = DailyTotal{Date: d, Hours: byDate[d]}
	}
	return out
}

func sortDates(dates []time.Time) {
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j].Before(dates[j-1]); j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
}

// hoursEpsilon absorbs floating error when deciding whether a remainder is a
// real shortfall.
const hoursEpsilon = 1e-9

func shortfallFor(t model.Task, allocated float64, today time.Time) *model.ShortfallRecord {
	if t.DueDate == nil {
		return nil
	}
	remaining := t.EstimatedHours - allocated
	if remaining <= hoursEpsilon {
		return nil
	}
	reason := model.ReasonInsufficientCapacity
	if model.Midnight(*t.DueDate).Before(model.Midnight(today)) {
		reason = model.ReasonPastDue
	}
	return &model.ShortfallRecord{
		TaskID:           t.ID,
		Name:             t.Name,
		DueDate:          *t.DueDate,
		TotalHours:       t.EstimatedHours,
		AllocatedHours:   allocated,
		UnallocatedHours: remaining,
		Reason:           reason,
	}
}
