// Package store holds the authoritative task and free-time collections that
// planning runs read from. Stores are the single mutation point: allocators
// only ever see snapshots, and resolution or breakdown actions go through a
// store so their preconditions can be checked against current state.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/avallet/chronoplan/core/model"
)

// ErrNotFound is returned when the referenced task or window does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned when adding a task whose ID is already in use.
var ErrDuplicate = errors.New("store: duplicate")

// TaskStore manages the task collection.
type TaskStore interface {
	// List returns a snapshot of all tasks in insertion order.
	List() []model.Task
	// Get returns the task with the given ID.
	Get(id string) (model.Task, error)
	// Add sanitizes and stores the task, assigning an ID when empty, and
	// returns the stored copy.
	Add(t model.Task) (model.Task, error)
	// Update replaces the task with the same ID.
	Update(t model.Task) error
	// Delete removes the task with the given ID.
	Delete(id string) error
	// Replace swaps the entire collection atomically.
	Replace(tasks []model.Task) error
}

// FreeTimeStore manages the free-time windows available for planning.
type FreeTimeStore interface {
	// List returns a snapshot of all windows in ascending date order.
	List() []model.FreeTimeWindow
	// Add merges the window into the collection; hours on an existing date
	// are added together.
	Add(w model.FreeTimeWindow) error
	// Subtract removes hours from the window on the given date, flooring
	// at zero. Subtracting from a missing date is an error.
	Subtract(w model.FreeTimeWindow) error
	// Delete removes the window on the given date entirely.
	Delete(date time.Time) error
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

func duplicate(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrDuplicate, kind, id)
}
