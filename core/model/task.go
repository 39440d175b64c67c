package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// SchedulingMode describes how a task participates in allocation.
type SchedulingMode int

const (
	// ModeStandard is a plain estimated-duration task.
	ModeStandard SchedulingMode = iota
	// ModeFixedEvent marks a fixed-duration event that must not be broken down.
	ModeFixedEvent
	// ModeMultiSession keeps the task whole but divides it into timed sessions.
	ModeMultiSession
	// ModePendingPlanning marks a task waiting for a planning session.
	ModePendingPlanning
	// ModeInProgress marks a partially completed task.
	ModeInProgress
)

// String returns a human-readable representation of the scheduling mode.
func (m SchedulingMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeFixedEvent:
		return "fixed_event"
	case ModeMultiSession:
		return "multi_session"
	case ModePendingPlanning:
		return "pending_planning"
	case ModeInProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Legacy bracketed name tags kept for round-tripping with external intake
// flows that still encode state in the task name.
const (
	TagMultiSession    = "[MULTI-SESSION]"
	TagFixedEvent      = "[FIXED EVENT]"
	TagPendingPlanning = "[PENDING PLANNING]"
	TagInProgress      = "[IN PROGRESS"
)

// Task represents one unit of estimated work to place on the calendar.
type Task struct {
	ID             string     `json:"id"`
	Project        string     `json:"project,omitempty"`
	Name           string     `json:"name"`
	EstimatedHours float64    `json:"estimated_hours"`
	DueDate        *time.Time `json:"due_date,omitempty"` // nil means no deadline
	Importance     int        `json:"importance"`         // 1..5
	Complexity     int        `json:"complexity"`         // 1..5

	Mode SchedulingMode `json:"mode,omitempty"`
	// ProgressPercent is only meaningful when Mode is ModeInProgress.
	ProgressPercent int `json:"progress_percent,omitempty"`
	// FocusSessions and SessionLength are only meaningful when Mode is
	// ModeMultiSession.
	FocusSessions int     `json:"focus_sessions,omitempty"`
	SessionLength float64 `json:"session_length,omitempty"`
}

// ModeFromName derives the scheduling mode from legacy bracketed tags.
// Structured Mode values take precedence; this exists for records entered
// through flows that only write the name.
func ModeFromName(name string) SchedulingMode {
	switch {
	case strings.Contains(name, TagFixedEvent):
		return ModeFixedEvent
	case strings.Contains(name, TagMultiSession):
		return ModeMultiSession
	case strings.Contains(name, TagPendingPlanning):
		return ModePendingPlanning
	case strings.Contains(name, TagInProgress):
		return ModeInProgress
	default:
		return ModeStandard
	}
}

// Tag renders the legacy bracketed tag for the mode, or an empty string for
// ModeStandard.
func (m SchedulingMode) Tag() string {
	switch m {
	case ModeFixedEvent:
		return TagFixedEvent
	case ModeMultiSession:
		return TagMultiSession
	case ModePendingPlanning:
		return TagPendingPlanning
	default:
		return ""
	}
}

// InProgressTag renders the legacy in-progress tag for the given percentage.
func InProgressTag(percent int) string {
	return fmt.Sprintf("%s %d%%]", TagInProgress, percent)
}

const (
	defaultImportance = 3
	defaultComplexity = 3
)

// Sanitize coerces malformed attributes to safe values and returns the
// cleaned task. Negative or NaN estimates become 0 so the task is skipped by
// allocation instead of poisoning arithmetic; importance and complexity are
// clamped to [1,5] with zero values promoted to the middle of the scale.
func (t Task) Sanitize() Task {
	if t.EstimatedHours < 0 || math.IsNaN(t.EstimatedHours) || math.IsInf(t.EstimatedHours, 0) {
		t.EstimatedHours = 0
	}
	t.Importance = clampScale(t.Importance)
	t.Complexity = clampScale(t.Complexity)
	if t.Mode == ModeStandard {
		t.Mode = ModeFromName(t.Name)
	}
	if t.DueDate != nil {
		d := Midnight(*t.DueDate)
		t.DueDate = &d
	}
	return t
}

func clampScale(v int) int {
	switch {
	case v == 0:
		return defaultImportance
	case v < 1:
		return 1
	case v > 5:
		return 5
	default:
		return v
	}
}

// Validate reports structural problems that Sanitize cannot repair.
func (t Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task name must not be empty")
	}
	return nil
}

// BreakdownExempt reports whether the task is excluded from large-task
// detection. Fixed events, multi-session tasks and tasks already pending
// planning are never flagged.
func (t Task) BreakdownExempt() bool {
	switch t.Mode {
	case ModeFixedEvent, ModeMultiSession, ModePendingPlanning:
		return true
	}
	switch ModeFromName(t.Name) {
	case ModeFixedEvent, ModeMultiSession, ModePendingPlanning:
		return true
	}
	return false
}

// DueOnOrBefore reports whether the task's deadline allows work on the given
// date. Tasks without a deadline accept any date.
func (t Task) DueOnOrBefore(date time.Time) bool {
	if t.DueDate == nil {
		return true
	}
	return !Midnight(date).After(Midnight(*t.DueDate))
}

// Midnight strips the time-of-day component, normalizing to 00:00 UTC.
// Every date comparison in the core goes through this; comparing raw
// timestamps against window dates silently excludes same-day capacity.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
