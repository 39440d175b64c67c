// Package ledger tracks per-day available hours during a planning run.
//
// The ledger is always consumed through a working copy so that computing a
// schedule preview never mutates the caller's free-time records.
package ledger

import (
	"sort"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

// Draw records hours debited from one window during a Consume call.
type Draw struct {
	Date  time.Time
	Hours float64
}

type window struct {
	date  time.Time
	hours float64
}

// Ledger is a date-sorted pool of available hours. Duplicate dates in the
// input are merged at construction: same-date windows are fungible capacity.
type Ledger struct {
	windows []window
}

// New builds a ledger from raw free-time windows. Dates are normalized to
// midnight, negative hours floored to zero, duplicates summed, and the
// result sorted ascending by date.
func New(wins []model.FreeTimeWindow) *Ledger {
	byDate := make(map[time.Time]float64, len(wins))
	for _, w := range wins {
		n := w.Normalize()
		byDate[n.Date] += n.AvailableHours
	}
	l := &Ledger{windows: make([]window, 0, len(byDate))}
	for d, h := range byDate {
		l.windows = append(l.windows, window{date: d, hours: h})
	}
	sort.Slice(l.windows, func(i, j int) bool { return l.windows[i].date.Before(l.windows[j].date) })
	return l
}

// Clone returns an independent working copy.
func (l *Ledger) Clone() *Ledger {
	cp := &Ledger{windows: make([]window, len(l.windows))}
	copy(cp.windows, l.windows)
	return cp
}

// Consume walks windows in ascending date order, debiting up to hours from
// windows dated on or before the deadline. A zero deadline means no date
// limit. It returns the draws made; their hours sum to at most the requested
// amount and no window ever goes negative.
func (l *Ledger) Consume(deadline time.Time, hours float64) []Draw {
	var draws []Draw
	limit := time.Time{}
	if !deadline.IsZero() {
		limit = model.Midnight(deadline)
	}
	for i := range l.windows {
		if hours <= 0 {
			break
		}
		w := &l.windows[i]
		if !limit.IsZero() && w.date.After(limit) {
			break
		}
		if w.hours <= 0 {
			continue
		}
		take := hours
		if w.hours < take {
			take = w.hours
		}
		w.hours -= take
		hours -= take
		draws = append(draws, Draw{Date: w.date, Hours: take})
	}
	return draws
}

// CapacityThrough sums the remaining hours on or before the given date.
// A zero date sums the whole ledger.
func (l *Ledger) CapacityThrough(date time.Time) float64 {
	limit := time.Time{}
	if !date.IsZero() {
		limit = model.Midnight(date)
	}
	total := 0.0
	for _, w := range l.windows {
		if !limit.IsZero() && w.date.After(limit) {
			break
		}
		total += w.hours
	}
	return total
}

// Total returns the remaining hours across all windows.
func (l *Ledger) Total() float64 {
	return l.CapacityThrough(time.Time{})
}

// Inject adds hours to the window for the given date, creating it if absent.
func (l *Ledger) Inject(date time.Time, hours float64) {
	if hours <= 0 {
		return
	}
	d := model.Midnight(date)
	for i := range l.windows {
		if l.windows[i].date.Equal(d) {
			l.windows[i].hours += hours
			return
		}
	}
	l.windows = append(l.windows, window{date: d, hours: hours})
	sort.Slice(l.windows, func(i, j int) bool { return l.windows[i].date.Before(l.windows[j].date) })
}

// Windows returns a snapshot of the current per-date balances.
func (l *Ledger) Windows() []model.FreeTimeWindow {
	out := make([]model.FreeTimeWindow, len(l.windows))
	for i, w := range l.windows {
		out[i] = model.FreeTimeWindow{Date: w.date, AvailableHours: w.hours}
	}
	return out
}
