package resolve

import (
	"errors"
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/store"
)

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, task model.Task) (*Resolver, store.TaskStore) {
	t.Helper()
	tasks := store.NewMemoryTaskStore()
	free := store.NewMemoryFreeTimeStore()
	if _, err := tasks.Add(task); err != nil {
		t.Fatal(err)
	}
	return New(tasks, free, nil), tasks
}

func TestReduceEstimate(t *testing.T) {
	r, tasks := newFixture(t, model.Task{ID: "x", Name: "x", EstimatedHours: 8})
	got, err := r.ReduceEstimate("x", 5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimatedHours != 5 {
		t.Fatalf("estimate not reduced: %#v", got)
	}
	stored, _ := tasks.Get("x")
	if stored.EstimatedHours != 5 {
		t.Fatal("store not updated")
	}
}

func TestReduceEstimate_RejectsOutOfBounds(t *testing.T) {
	r, tasks := newFixture(t, model.Task{ID: "x", Name: "x", EstimatedHours: 8})
	var pe *PreconditionError
	if _, err := r.ReduceEstimate("x", 2, 3); !errors.As(err, &pe) {
		t.Fatalf("expected precondition error below allocated, got %v", err)
	}
	if _, err := r.ReduceEstimate("x", 9, 3); !errors.As(err, &pe) {
		t.Fatalf("expected precondition error above current, got %v", err)
	}
	stored, _ := tasks.Get("x")
	if stored.EstimatedHours != 8 {
		t.Fatal("rejected action must leave the task unchanged")
	}
}

func TestExtendDueDate(t *testing.T) {
	due := day0.AddDate(0, 0, 3)
	r, tasks := newFixture(t, model.Task{ID: "x", Name: "x", EstimatedHours: 2, DueDate: &due})

	if _, err := r.ExtendDueDate("x", day0); err == nil {
		t.Fatal("earlier due date must be rejected")
	}
	stored, _ := tasks.Get("x")
	if !stored.DueDate.Equal(due) {
		t.Fatal("rejected action must leave the due date unchanged")
	}

	got, err := r.ExtendDueDate("x", day0.AddDate(0, 0, 7).Add(16*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !got.DueDate.Equal(day0.AddDate(0, 0, 7)) {
		t.Fatalf("due date not normalized to midnight: %v", got.DueDate)
	}
}

func TestExtendDueDate_GivesDeadlineToOpenTask(t *testing.T) {
	r, _ := newFixture(t, model.Task{ID: "x", Name: "x", EstimatedHours: 2})
	got, err := r.ExtendDueDate("x", day0)
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(day0) {
		t.Fatalf("open task should gain the due date: %#v", got)
	}
}

func TestMarkPartial(t *testing.T) {
	r, _ := newFixture(t, model.Task{ID: "x", Name: "Write report", EstimatedHours: 10})
	got, err := r.MarkPartial("x", 40)
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimatedHours != 6 {
		t.Fatalf("expected 6h remaining, got %v", got.EstimatedHours)
	}
	if got.Mode != model.ModeInProgress || got.ProgressPercent != 40 {
		t.Fatalf("mode not updated: %#v", got)
	}
	if got.Name != "Write report [IN PROGRESS 40%]" {
		t.Fatalf("unexpected name: %q", got.Name)
	}
}

func TestMarkPartial_ReplacesPreviousTag(t *testing.T) {
	r, _ := newFixture(t, model.Task{ID: "x", Name: "Write report", EstimatedHours: 10})
	if _, err := r.MarkPartial("x", 20); err != nil {
		t.Fatal(err)
	}
	got, err := r.MarkPartial("x", 50)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Write report [IN PROGRESS 50%]" {
		t.Fatalf("previous tag should be replaced: %q", got.Name)
	}
}

func TestMarkPartial_RejectsBadPercent(t *testing.T) {
	r, _ := newFixture(t, model.Task{ID: "x", Name: "x", EstimatedHours: 10})
	for _, p := range []int{0, -5, 100, 140} {
		if _, err := r.MarkPartial("x", p); err == nil {
			t.Fatalf("percent %d should be rejected", p)
		}
	}
}

func TestInjectFreeTime(t *testing.T) {
	tasks := store.NewMemoryTaskStore()
	free := store.NewMemoryFreeTimeStore()
	r := New(tasks, free, nil)
	if err := r.InjectFreeTime(day0.Add(11*time.Hour), 2.5); err != nil {
		t.Fatal(err)
	}
	list := free.List()
	if len(list) != 1 || list[0].AvailableHours != 2.5 || !list[0].Date.Equal(day0) {
		t.Fatalf("unexpected free time: %#v", list)
	}
	if err := r.InjectFreeTime(day0, 0); err == nil {
		t.Fatal("zero hours should be rejected")
	}
}

func TestActionsOnMissingTask(t *testing.T) {
	r := New(store.NewMemoryTaskStore(), store.NewMemoryFreeTimeStore(), nil)
	if _, err := r.ReduceEstimate("ghost", 1, 0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.ExtendDueDate("ghost", day0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
