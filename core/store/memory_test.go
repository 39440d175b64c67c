package store

import (
	"errors"
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

var day0 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestMemoryTaskStore_AddAssignsID(t *testing.T) {
	s := NewMemoryTaskStore()
	got, err := s.Add(model.Task{Name: "write docs", EstimatedHours: 2})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID == "" {
		t.Fatal("expected generated ID")
	}
	if got.Importance != 3 || got.Complexity != 3 {
		t.Fatalf("expected sanitized defaults, got %#v", got)
	}
}

func TestMemoryTaskStore_DuplicateIDRejected(t *testing.T) {
	s := NewMemoryTaskStore()
	if _, err := s.Add(model.Task{ID: "x", Name: "a"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Add(model.Task{ID: "x", Name: "b"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMemoryTaskStore_UpdateAndGet(t *testing.T) {
	s := NewMemoryTaskStore()
	orig, _ := s.Add(model.Task{ID: "x", Name: "a", EstimatedHours: 4})
	orig.EstimatedHours = 2.5
	if err := s.Update(orig); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get("x")
	if err != nil {
		t.Fatal(err)
	}
	if got.EstimatedHours != 2.5 {
		t.Fatalf("update not applied: %#v", got)
	}
	if err := s.Update(model.Task{ID: "missing", Name: "m"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryTaskStore_DeletePreservesOrder(t *testing.T) {
	s := NewMemoryTaskStore()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Add(model.Task{ID: id, Name: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete("b"); err != nil {
		t.Fatal(err)
	}
	list := s.List()
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "c" {
		t.Fatalf("unexpected order after delete: %#v", list)
	}
	if _, err := s.Get("c"); err != nil {
		t.Fatalf("index stale after delete: %v", err)
	}
}

func TestMemoryTaskStore_ReplaceIsAtomic(t *testing.T) {
	s := NewMemoryTaskStore()
	s.Add(model.Task{ID: "keep", Name: "keep"})
	err := s.Replace([]model.Task{
		{ID: "n1", Name: "n1"},
		{ID: "n1", Name: "dup"},
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if list := s.List(); len(list) != 1 || list[0].ID != "keep" {
		t.Fatalf("failed replace must leave store untouched: %#v", list)
	}
}

func TestMemoryTaskStore_ListIsSnapshot(t *testing.T) {
	s := NewMemoryTaskStore()
	s.Add(model.Task{ID: "x", Name: "x"})
	list := s.List()
	list[0].Name = "mutated"
	got, _ := s.Get("x")
	if got.Name != "x" {
		t.Fatal("List must return a copy")
	}
}

func TestMemoryFreeTimeStore_AddMergesSameDate(t *testing.T) {
	s := NewMemoryFreeTimeStore()
	s.Add(model.FreeTimeWindow{Date: day0, AvailableHours: 2})
	s.Add(model.FreeTimeWindow{Date: day0.Add(15 * time.Hour), AvailableHours: 1.5})
	list := s.List()
	if len(list) != 1 || list[0].AvailableHours != 3.5 {
		t.Fatalf("expected merged 3.5h window: %#v", list)
	}
}

func TestMemoryFreeTimeStore_ListSorted(t *testing.T) {
	s := NewMemoryFreeTimeStore()
	s.Add(model.FreeTimeWindow{Date: day0.AddDate(0, 0, 2), AvailableHours: 1})
	s.Add(model.FreeTimeWindow{Date: day0, AvailableHours: 1})
	s.Add(model.FreeTimeWindow{Date: day0.AddDate(0, 0, 1), AvailableHours: 1})
	list := s.List()
	for i := 1; i < len(list); i++ {
		if list[i].Date.Before(list[i-1].Date) {
			t.Fatalf("list not sorted: %#v", list)
		}
	}
}

func TestMemoryFreeTimeStore_SubtractFloorsAtZero(t *testing.T) {
	s := NewMemoryFreeTimeStore()
	s.Add(model.FreeTimeWindow{Date: day0, AvailableHours: 2})
	if err := s.Subtract(model.FreeTimeWindow{Date: day0, AvailableHours: 5}); err != nil {
		t.Fatal(err)
	}
	if got := s.List(); len(got) != 1 || got[0].AvailableHours != 0 {
		t.Fatalf("expected floor at zero: %#v", got)
	}
	err := s.Subtract(model.FreeTimeWindow{Date: day0.AddDate(0, 0, 9), AvailableHours: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryFreeTimeStore_Delete(t *testing.T) {
	s := NewMemoryFreeTimeStore()
	s.Add(model.FreeTimeWindow{Date: day0, AvailableHours: 2})
	if err := s.Delete(day0.Add(10 * time.Hour)); err != nil {
		t.Fatal(err)
	}
	if got := s.List(); len(got) != 0 {
		t.Fatalf("expected empty store: %#v", got)
	}
	if err := s.Delete(day0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
