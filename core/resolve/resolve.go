// Package resolve applies shortfall resolution actions to the task and
// free-time stores. Each action validates its preconditions against the
// current state and leaves everything unchanged when they do not hold, so a
// stale shortfall report can never corrupt the collections.
package resolve

import (
	"fmt"
	"strings"
	"time"

	"github.com/avallet/chronoplan/core/logger"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/store"
)

// PreconditionError reports an action rejected because its precondition did
// not hold. The stores are untouched when this is returned.
type PreconditionError struct {
	Action string
	TaskID string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("resolve: %s on task %q rejected: %s", e.Action, e.TaskID, e.Reason)
}

func precondition(action, taskID, format string, args ...any) error {
	return &PreconditionError{Action: action, TaskID: taskID, Reason: fmt.Sprintf(format, args...)}
}

// Resolver mutates tasks and free time in response to shortfall reports.
type Resolver struct {
	tasks store.TaskStore
	free  store.FreeTimeStore
	log   logger.Logger
}

// New creates a resolver over the given stores. The logger may be nil.
func New(tasks store.TaskStore, free store.FreeTimeStore, log logger.Logger) *Resolver {
	if log == nil {
		log = nop{}
	}
	return &Resolver{tasks: tasks, free: free, log: log}
}

type nop struct{}

func (nop) Debugf(string, ...any)         {}
func (nop) Debugw(string, map[string]any) {}
func (nop) Infof(string, ...any)          {}
func (nop) Warnf(string, ...any)          {}
func (nop) Errorf(string, ...any)         {}

// ReduceEstimate lowers the task's estimate to hours. The new estimate must
// stay within [allocated, current estimate]: shrinking below what the last
// plan already placed would strand allocations, and growing is not a
// reduction.
func (r *Resolver) ReduceEstimate(taskID string, hours, allocated float64) (model.Task, error) {
	t, err := r.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	if hours < allocated {
		return model.Task{}, precondition("reduce_estimate", taskID,
			"new estimate %.2fh below already allocated %.2fh", hours, allocated)
	}
	if hours > t.EstimatedHours {
		return model.Task{}, precondition("reduce_estimate", taskID,
			"new estimate %.2fh above current %.2fh", hours, t.EstimatedHours)
	}
	t.EstimatedHours = hours
	if err := r.tasks.Update(t); err != nil {
		return model.Task{}, err
	}
	r.log.Infof("reduced estimate of %s to %.2fh", taskID, hours)
	return t, nil
}

// ExtendDueDate moves the task's due date to the given date, which must not
// be earlier than the current one. Tasks without a due date gain one.
func (r *Resolver) ExtendDueDate(taskID string, due time.Time) (model.Task, error) {
	t, err := r.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	d := model.Midnight(due)
	if t.DueDate != nil && d.Before(*t.DueDate) {
		return model.Task{}, precondition("extend_due_date", taskID,
			"new due date %s earlier than current %s",
			d.Format("2006-01-02"), t.DueDate.Format("2006-01-02"))
	}
	t.DueDate = &d
	if err := r.tasks.Update(t); err != nil {
		return model.Task{}, err
	}
	r.log.Infof("extended due date of %s to %s", taskID, d.Format("2006-01-02"))
	return t, nil
}

// MarkPartial records that percent of the task is already done. The estimate
// becomes the remaining share of the original and the task is tagged as in
// progress. Percent must be in (0, 100); completing a task is a delete, not
// a partial.
func (r *Resolver) MarkPartial(taskID string, percent int) (model.Task, error) {
	t, err := r.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	if percent <= 0 || percent >= 100 {
		return model.Task{}, precondition("mark_partial", taskID,
			"progress %d%% outside (0, 100)", percent)
	}
	t.EstimatedHours = t.EstimatedHours * (1 - float64(percent)/100)
	t.Mode = model.ModeInProgress
	t.ProgressPercent = percent
	t.Name = strings.TrimSpace(stripInProgressTag(t.Name)) + " " + model.InProgressTag(percent)
	if err := r.tasks.Update(t); err != nil {
		return model.Task{}, err
	}
	r.log.Infof("marked %s as %d%% done, %.2fh remaining", taskID, percent, t.EstimatedHours)
	return t, nil
}

// stripInProgressTag removes a previous in-progress tag so repeated partial
// updates do not stack tags in the name.
func stripInProgressTag(name string) string {
	start := strings.Index(name, model.TagInProgress)
	if start < 0 {
		return name
	}
	end := strings.Index(name[start:], "]")
	if end < 0 {
		return name[:start]
	}
	return name[:start] + name[start+end+1:]
}

// InjectFreeTime adds hours of capacity on the given date. Hours must be
// positive.
func (r *Resolver) InjectFreeTime(date time.Time, hours float64) error {
	if hours <= 0 {
		return precondition("inject_free_time", "", "hours %.2f not positive", hours)
	}
	if err := r.free.Add(model.FreeTimeWindow{Date: date, AvailableHours: hours}); err != nil {
		return err
	}
	r.log.Infof("injected %.2fh of free time on %s", hours, model.Midnight(date).Format("2006-01-02"))
	return nil
}
