package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

func sampleRecord(ts time.Time, policy, taskID string) PlanRecord {
	return PlanRecord{
		Timestamp: ts,
		Today:     model.Midnight(ts),
		Policy:    policy,
		Allocations: []model.Allocation{
			{TaskID: taskID, Date: model.Midnight(ts), AllocatedHours: 2},
		},
	}
}

func TestJSONLStore_AppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()

	now := time.Now().UTC()
	ctx := context.Background()
	if err := store.Append(ctx, sampleRecord(now, "greedy", "t1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(ctx, sampleRecord(now.Add(time.Hour), "fairness", "t2")); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := store.Query(ctx, LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records got %d", len(all))
	}

	byPolicy, err := store.Query(ctx, LogQuery{Policy: "fairness"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byPolicy) != 1 || byPolicy[0].Allocations[0].TaskID != "t2" {
		t.Fatalf("policy filter failed: %#v", byPolicy)
	}

	byTask, err := store.Query(ctx, LogQuery{TaskID: "t1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byTask) != 1 {
		t.Fatalf("task filter failed: %#v", byTask)
	}
}

func TestJSONLStore_TimeRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.jsonl")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := store.Append(ctx, sampleRecord(base.Add(time.Duration(i)*time.Hour), "greedy", "t")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := store.Query(ctx, LogQuery{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record in range got %d", len(got))
	}
}

func TestRotatingJSONLStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.jsonl")
	store, err := NewRotatingJSONLStore(path, 1, 1, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	if err := store.Append(ctx, sampleRecord(time.Now().UTC(), "greedy", "t1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := store.Query(ctx, LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record got %d", len(got))
	}
}
