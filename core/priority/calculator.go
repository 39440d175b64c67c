// Package priority scores tasks for allocation ordering. Lower scores are
// scheduled first.
package priority

import (
	"sort"

	"time"

	"github.com/avallet/chronoplan/core/model"
)

// Scorer computes a sortable priority score for one task. Lower is more
// urgent.
type Scorer interface {
	Score(t model.Task, today time.Time) float64
}

// Calculator implements the canonical linear formula
// daysUntilDue - importance*ImportanceWeight. Tasks without a due date use
// NoDueDateSentinelDays as their days-until-due so they sort behind every
// deadline-bearing task while remaining reachable. Overdue tasks keep their
// negative day count and therefore sort first.
type Calculator struct {
	ImportanceWeight      float64
	NoDueDateSentinelDays int
}

// NewCalculator returns a Calculator with the default weights.
func NewCalculator() Calculator {
	return Calculator{ImportanceWeight: 5, NoDueDateSentinelDays: 9999}
}

// Score implements Scorer.
func (c Calculator) Score(t model.Task, today time.Time) float64 {
	days := float64(c.NoDueDateSentinelDays)
	if t.DueDate != nil {
		days = daysBetween(today, *t.DueDate)
	}
	return days - float64(t.Importance)*c.ImportanceWeight
}

// DeadlineWeightedCalculator is the alternate multiplicative formula
// -(10/(daysUntilDue+1)) * importance * 10, with overdue tasks pinned to
// -9999. It weights near deadlines much more aggressively than the linear
// formula and is kept as a selectable variant, not the default.
type DeadlineWeightedCalculator struct{}

// Score implements Scorer.
func (DeadlineWeightedCalculator) Score(t model.Task, today time.Time) float64 {
	if t.DueDate == nil {
		return 0
	}
	days := daysBetween(today, *t.DueDate)
	if days < 0 {
		return -9999
	}
	return -(10 / (days + 1)) * float64(t.Importance) * 10
}

func daysBetween(from, to time.Time) float64 {
	return model.Midnight(to).Sub(model.Midnight(from)).Hours() / 24
}

// Scored pairs a task with its computed priority score for one run.
type Scored struct {
	Task  model.Task
	Score float64
}

// Rank returns a new slice of tasks scored and sorted ascending by
// (score, complexity, id). The input is never mutated. The ID tiebreak keeps
// run output deterministic when score and complexity collide.
func Rank(tasks []model.Task, today time.Time, scorer Scorer) []Scored {
	out := make([]Scored, len(tasks))
	for i, t := range tasks {
		out[i] = Scored{Task: t, Score: scorer.Score(t, today)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		if out[i].Task.Complexity != out[j].Task.Complexity {
			return out[i].Task.Complexity < out[j].Task.Complexity
		}
		return out[i].Task.ID < out[j].Task.ID
	})
	return out
}
