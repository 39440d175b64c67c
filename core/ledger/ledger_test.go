package ledger

import (
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_MergesDuplicateDates(t *testing.T) {
	l := New([]model.FreeTimeWindow{
		{Date: day(2), AvailableHours: 2},
		{Date: day(2).Add(13 * time.Hour), AvailableHours: 1.5},
		{Date: day(1), AvailableHours: 4},
	})
	wins := l.Windows()
	if len(wins) != 2 {
		t.Fatalf("expected 2 windows got %d", len(wins))
	}
	if !wins[0].Date.Equal(day(1)) || wins[0].AvailableHours != 4 {
		t.Fatalf("expected day 1 first: %#v", wins[0])
	}
	if wins[1].AvailableHours != 3.5 {
		t.Fatalf("duplicates not merged: %#v", wins[1])
	}
}

func TestConsume_RespectsDeadline(t *testing.T) {
	l := New([]model.FreeTimeWindow{
		{Date: day(1), AvailableHours: 2},
		{Date: day(2), AvailableHours: 2},
		{Date: day(3), AvailableHours: 2},
	})
	draws := l.Consume(day(2).Add(18*time.Hour), 5)
	total := 0.0
	for _, d := range draws {
		if d.Date.After(day(2)) {
			t.Fatalf("drew from window past deadline: %v", d.Date)
		}
		total += d.Hours
	}
	if total != 4 {
		t.Fatalf("expected 4h consumed got %v", total)
	}
	if got := l.CapacityThrough(day(2)); got != 0 {
		t.Fatalf("expected eligible windows drained, %vh left", got)
	}
	if got := l.Total(); got != 2 {
		t.Fatalf("day 3 should be untouched, total %v", got)
	}
}

func TestConsume_NoDeadlineWalksAll(t *testing.T) {
	l := New([]model.FreeTimeWindow{
		{Date: day(1), AvailableHours: 1},
		{Date: day(5), AvailableHours: 1},
	})
	draws := l.Consume(time.Time{}, 3)
	if len(draws) != 2 {
		t.Fatalf("expected both windows drawn, got %d", len(draws))
	}
	if l.Total() != 0 {
		t.Fatalf("expected ledger drained, %v left", l.Total())
	}
}

func TestConsume_NeverNegative(t *testing.T) {
	l := New([]model.FreeTimeWindow{{Date: day(1), AvailableHours: 1.5}})
	l.Consume(time.Time{}, 10)
	if got := l.Total(); got != 0 {
		t.Fatalf("expected 0 remaining got %v", got)
	}
	if draws := l.Consume(time.Time{}, 1); len(draws) != 0 {
		t.Fatalf("empty ledger must not produce draws: %#v", draws)
	}
}

func TestClone_Isolated(t *testing.T) {
	l := New([]model.FreeTimeWindow{{Date: day(1), AvailableHours: 3}})
	cp := l.Clone()
	cp.Consume(time.Time{}, 3)
	if l.Total() != 3 {
		t.Fatalf("consume on clone leaked into original: %v", l.Total())
	}
}

func TestInject_MergesAndSorts(t *testing.T) {
	l := New([]model.FreeTimeWindow{{Date: day(2), AvailableHours: 1}})
	l.Inject(day(2).Add(9*time.Hour), 2)
	l.Inject(day(1), 1)
	wins := l.Windows()
	if len(wins) != 2 || !wins[0].Date.Equal(day(1)) {
		t.Fatalf("inject ordering wrong: %#v", wins)
	}
	if wins[1].AvailableHours != 3 {
		t.Fatalf("inject should merge same date: %#v", wins[1])
	}
	l.Inject(day(1), -5)
	if l.Total() != 4 {
		t.Fatalf("non-positive inject must be ignored")
	}
}
