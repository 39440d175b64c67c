package events

import "time"

// RunEvent is published when a planning run completes.
type RunEvent struct {
	Policy      string
	Today       time.Time
	Tasks       int
	Allocations int
	Shortfalls  int
}
