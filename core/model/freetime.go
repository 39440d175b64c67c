package model

import "time"

// FreeTimeWindow is one calendar date with a number of available hours.
type FreeTimeWindow struct {
	Date           time.Time `json:"date"`
	AvailableHours float64   `json:"available_hours"`
}

// Normalize strips the time-of-day from the window date and floors negative
// hours to zero.
func (w FreeTimeWindow) Normalize() FreeTimeWindow {
	w.Date = Midnight(w.Date)
	if w.AvailableHours < 0 {
		w.AvailableHours = 0
	}
	return w
}
