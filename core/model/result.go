package model

import "time"

// Allocation assigns a number of hours of one task to one calendar date.
// Allocations are produced fresh on every planning run and never persisted.
type Allocation struct {
	TaskID         string    `json:"task_id"`
	Date           time.Time `json:"date"`
	AllocatedHours float64   `json:"allocated_hours"`
}

// ShortfallReason explains why a task could not be fully scheduled.
type ShortfallReason int

const (
	// ReasonInsufficientCapacity means the calendar lacked enough hours
	// before the due date.
	ReasonInsufficientCapacity ShortfallReason = iota
	// ReasonPastDue means the due date lies in the past and no eligible
	// windows remain at all.
	ReasonPastDue
)

// String returns a human-readable representation of the reason.
func (r ShortfallReason) String() string {
	switch r {
	case ReasonInsufficientCapacity:
		return "insufficient total capacity before due date"
	case ReasonPastDue:
		return "due date already passed"
	default:
		return "unknown"
	}
}

// ShortfallRecord reports a task whose estimate could not be placed before
// its deadline. Only due-bearing tasks ever produce one.
type ShortfallRecord struct {
	TaskID           string          `json:"task_id"`
	Name             string          `json:"name"`
	DueDate          time.Time       `json:"due_date"`
	TotalHours       float64         `json:"total_hours"`
	AllocatedHours   float64         `json:"allocated_hours"`
	UnallocatedHours float64         `json:"unallocated_hours"`
	Reason           ShortfallReason `json:"reason"`
}

// WarningKind classifies advisory warnings emitted by a planning run.
type WarningKind string

const (
	WarnLargeTask WarningKind = "large_task"
	WarnShortfall WarningKind = "shortfall"
)

// Warning is an advisory message attached to a planning run. It never
// constrains scheduling.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	TaskID  string      `json:"task_id"`
	Message string      `json:"message"`
}
