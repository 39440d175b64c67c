package planner

import "github.com/avallet/chronoplan/core/model"

// DefaultLargeTaskThreshold is the estimate above which a task should be
// broken down before scheduling, in hours.
const DefaultLargeTaskThreshold = 6.0

// LargeTasks returns the IDs of tasks whose estimate exceeds the threshold
// and that carry no breakdown exemption. The result is advisory only; large
// tasks are still scheduled normally. A non-positive threshold falls back to
// the default.
func LargeTasks(tasks []model.Task, threshold float64) []string {
	if threshold <= 0 {
		threshold = DefaultLargeTaskThreshold
	}
	var ids []string
	for _, t := range tasks {
		if t.EstimatedHours > threshold && !t.BreakdownExempt() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
