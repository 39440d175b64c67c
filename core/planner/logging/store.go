// Package logging persists planning run records so past schedules can be
// inspected after the fact.
package logging

import (
	"context"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

// PlanRecord captures one planning run and its outcome.
type PlanRecord struct {
	Timestamp    time.Time               `json:"timestamp"`
	Today        time.Time               `json:"today"`
	Policy       string                  `json:"policy"`
	Allocations  []model.Allocation      `json:"allocations"`
	Shortfalls   []model.ShortfallRecord `json:"shortfalls"`
	LargeTaskIDs []string                `json:"large_task_ids"`
}

// LogQuery defines filters for retrieving records.
type LogQuery struct {
	Start  time.Time
	End    time.Time
	TaskID string
	Policy string
}

// LogStore persists PlanRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec PlanRecord) error
	Query(ctx context.Context, q LogQuery) ([]PlanRecord, error)
	Close() error
}

// matches reports whether the record passes every filter in q.
func (q LogQuery) matches(r PlanRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Policy != "" && r.Policy != q.Policy {
		return false
	}
	if q.TaskID != "" {
		found := false
		for _, a := range r.Allocations {
			if a.TaskID == q.TaskID {
				found = true
				break
			}
		}
		if !found {
			for _, s := range r.Shortfalls {
				if s.TaskID == q.TaskID {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}
