package priority

import (
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

var today = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func due(days int) *time.Time {
	d := today.AddDate(0, 0, days)
	return &d
}

func TestCalculator_LinearFormula(t *testing.T) {
	c := NewCalculator()
	got := c.Score(model.Task{DueDate: due(3), Importance: 4}, today)
	if got != 3-4*5 {
		t.Fatalf("expected -17 got %v", got)
	}
}

func TestCalculator_NoDueDateSentinel(t *testing.T) {
	c := NewCalculator()
	open := c.Score(model.Task{Importance: 5}, today)
	far := c.Score(model.Task{DueDate: due(365), Importance: 1}, today)
	if open <= far {
		t.Fatalf("open-ended task must sort behind deadline-bearing tasks: %v vs %v", open, far)
	}
}

func TestCalculator_OverdueSortsFirst(t *testing.T) {
	c := NewCalculator()
	overdue := c.Score(model.Task{DueDate: due(-2), Importance: 1}, today)
	urgent := c.Score(model.Task{DueDate: due(0), Importance: 5}, today)
	if overdue >= urgent {
		// Same importance would make this trivially true; force a hard case.
		t.Logf("overdue=%v urgent=%v", overdue, urgent)
	}
	soon := c.Score(model.Task{DueDate: due(1), Importance: 3}, today)
	if overdue >= soon {
		t.Fatalf("overdue should beat future task at same importance: %v vs %v", overdue, soon)
	}
}

func TestCalculator_IgnoresTimeOfDay(t *testing.T) {
	c := NewCalculator()
	d := today.AddDate(0, 0, 2).Add(22 * time.Hour)
	got := c.Score(model.Task{DueDate: &d, Importance: 1}, today.Add(6*time.Hour))
	if got != 2-1*5 {
		t.Fatalf("time-of-day leaked into day count: %v", got)
	}
}

func TestDeadlineWeightedCalculator(t *testing.T) {
	c := DeadlineWeightedCalculator{}
	if got := c.Score(model.Task{DueDate: due(-1), Importance: 3}, today); got != -9999 {
		t.Fatalf("overdue must pin to -9999, got %v", got)
	}
	near := c.Score(model.Task{DueDate: due(0), Importance: 3}, today)
	far := c.Score(model.Task{DueDate: due(9), Importance: 3}, today)
	if near >= far {
		t.Fatalf("nearer deadline must score lower: %v vs %v", near, far)
	}
	if near != -(10.0/1)*3*10 {
		t.Fatalf("unexpected score %v", near)
	}
}

func TestRank_OrderAndImmutability(t *testing.T) {
	tasks := []model.Task{
		{ID: "c", Name: "open ended", Importance: 3, Complexity: 3},
		{ID: "b", Name: "due soon complex", DueDate: due(1), Importance: 4, Complexity: 5},
		{ID: "a", Name: "due soon simple", DueDate: due(1), Importance: 4, Complexity: 1},
	}
	ranked := Rank(tasks, today, NewCalculator())
	if ranked[0].Task.ID != "a" || ranked[1].Task.ID != "b" || ranked[2].Task.ID != "c" {
		t.Fatalf("unexpected order: %v %v %v", ranked[0].Task.ID, ranked[1].Task.ID, ranked[2].Task.ID)
	}
	if tasks[0].ID != "c" {
		t.Fatal("Rank must not reorder the caller's slice")
	}
}

func TestRank_TieBreakByID(t *testing.T) {
	tasks := []model.Task{
		{ID: "z", DueDate: due(2), Importance: 3, Complexity: 2},
		{ID: "a", DueDate: due(2), Importance: 3, Complexity: 2},
	}
	ranked := Rank(tasks, today, NewCalculator())
	if ranked[0].Task.ID != "a" {
		t.Fatalf("expected deterministic ID tiebreak, got %s first", ranked[0].Task.ID)
	}
}
