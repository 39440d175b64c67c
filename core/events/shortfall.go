package events

import "github.com/avallet/chronoplan/core/model"

// ShortfallEvent is published for each task that could not be fully placed
// before its due date.
type ShortfallEvent struct {
	Record model.ShortfallRecord
}

// LargeTaskEvent is published for each task flagged as needing breakdown.
type LargeTaskEvent struct {
	TaskID string
	Hours  float64
}
