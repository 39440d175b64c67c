// Package breakdown turns large tasks into schedulable work. It offers the
// strategies surfaced when a task exceeds the large-task threshold: splitting
// into subtasks, scheduling a planning session, dividing into focus sessions,
// iterative exploration, and marking the task as a fixed event that should
// stay whole.
package breakdown

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/avallet/chronoplan/core/logger"
	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/store"
	"github.com/google/uuid"
)

// Subtask describes one piece of a split.
type Subtask struct {
	Name           string
	EstimatedHours float64
	DueDate        *time.Time
	Importance     int
	Complexity     int
}

// planning session defaults: a short, moderately important prep task.
const (
	planningSessionHours      = 1.0
	planningSessionImportance = 4
	planningSessionComplexity = 2
)

// DefaultSessionLength is the focus session length used when none is given.
const DefaultSessionLength = 2.0

// Breaker applies breakdown strategies against the task store.
type Breaker struct {
	tasks store.TaskStore
	log   logger.Logger
}

// New creates a breaker over the given store. The logger may be nil.
func New(tasks store.TaskStore, log logger.Logger) *Breaker {
	if log == nil {
		log = nop{}
	}
	return &Breaker{tasks: tasks, log: log}
}

type nop struct{}

func (nop) Debugf(string, ...any)         {}
func (nop) Debugw(string, map[string]any) {}
func (nop) Infof(string, ...any)          {}
func (nop) Warnf(string, ...any)          {}
func (nop) Errorf(string, ...any)         {}

// Split replaces the task with the given subtasks. Subtask hours must sum to
// a positive value; attributes left at zero inherit from the original. The
// original task is removed only after every subtask was stored, and any
// partial insert is rolled back.
func (b *Breaker) Split(taskID string, subs []Subtask) ([]model.Task, error) {
	orig, err := b.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if len(subs) < 2 {
		return nil, fmt.Errorf("breakdown: split needs at least two subtasks")
	}
	created := make([]model.Task, 0, len(subs))
	for _, sub := range subs {
		if sub.EstimatedHours <= 0 {
			b.rollback(created)
			return nil, fmt.Errorf("breakdown: subtask %q has no estimate", sub.Name)
		}
		t := model.Task{
			ID:             uuid.NewString(),
			Project:        orig.Project,
			Name:           sub.Name,
			EstimatedHours: sub.EstimatedHours,
			DueDate:        firstDue(sub.DueDate, orig.DueDate),
			Importance:     firstScale(sub.Importance, orig.Importance),
			Complexity:     firstScale(sub.Complexity, orig.Complexity),
		}
		stored, err := b.tasks.Add(t)
		if err != nil {
			b.rollback(created)
			return nil, err
		}
		created = append(created, stored)
	}
	if err := b.tasks.Delete(taskID); err != nil {
		b.rollback(created)
		return nil, err
	}
	b.log.Infof("split %s into %d subtasks", taskID, len(created))
	return created, nil
}

// PlanIn schedules a planning session for the task. A short prep task is
// created and the original is marked pending planning so it stops tripping
// the large-task warning until the session happened.
func (b *Breaker) PlanIn(taskID string, sessionDue *time.Time) (model.Task, error) {
	orig, err := b.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	session := model.Task{
		ID:             uuid.NewString(),
		Project:        orig.Project,
		Name:           fmt.Sprintf("Plan: %s", baseName(orig.Name)),
		EstimatedHours: planningSessionHours,
		DueDate:        firstDue(sessionDue, orig.DueDate),
		Importance:     planningSessionImportance,
		Complexity:     planningSessionComplexity,
	}
	stored, err := b.tasks.Add(session)
	if err != nil {
		return model.Task{}, err
	}
	orig.Mode = model.ModePendingPlanning
	orig.Name = tagged(orig.Name, model.TagPendingPlanning)
	if err := b.tasks.Update(orig); err != nil {
		b.rollback([]model.Task{stored})
		return model.Task{}, err
	}
	b.log.Infof("scheduled planning session %s for %s", stored.ID, taskID)
	return stored, nil
}

// FocusSessions divides the task into fixed-length focus sessions without
// splitting it. The number of sessions is the estimate divided by the
// session length, rounded up; a non-positive length falls back to the
// default.
func (b *Breaker) FocusSessions(taskID string, sessionLength float64) (model.Task, error) {
	t, err := b.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	if sessionLength <= 0 {
		sessionLength = DefaultSessionLength
	}
	if t.EstimatedHours <= 0 {
		return model.Task{}, fmt.Errorf("breakdown: task %q has no estimate to divide", taskID)
	}
	t.Mode = model.ModeMultiSession
	t.SessionLength = sessionLength
	t.FocusSessions = int(math.Ceil(t.EstimatedHours / sessionLength))
	t.Name = tagged(t.Name, model.TagMultiSession)
	if err := b.tasks.Update(t); err != nil {
		return model.Task{}, err
	}
	b.log.Infof("divided %s into %d sessions of %.1fh", taskID, t.FocusSessions, sessionLength)
	return t, nil
}

// Iterative replaces the task with an exploration task of the given hours
// and a remaining-work task holding the rest, both under an "Iterative:"
// project so later passes can find the pair. Exploration hours must leave a
// positive remainder.
func (b *Breaker) Iterative(taskID string, explorationHours float64) ([]model.Task, error) {
	orig, err := b.tasks.Get(taskID)
	if err != nil {
		return nil, err
	}
	if explorationHours <= 0 || explorationHours >= orig.EstimatedHours {
		return nil, fmt.Errorf("breakdown: exploration hours %.2f must be within (0, %.2f)",
			explorationHours, orig.EstimatedHours)
	}
	project := "Iterative: " + baseName(orig.Name)
	subs := []Subtask{
		{Name: baseName(orig.Name) + " (exploration)", EstimatedHours: explorationHours},
		{Name: baseName(orig.Name) + " [REMAINING WORK]", EstimatedHours: orig.EstimatedHours - explorationHours},
	}
	created, err := b.Split(taskID, subs)
	if err != nil {
		return nil, err
	}
	for i, t := range created {
		t.Project = project
		if err := b.tasks.Update(t); err != nil {
			return nil, err
		}
		created[i] = t
	}
	return created, nil
}

// MarkFixedEvent declares the task a fixed-duration event that must stay
// whole, exempting it from large-task detection.
func (b *Breaker) MarkFixedEvent(taskID string) (model.Task, error) {
	t, err := b.tasks.Get(taskID)
	if err != nil {
		return model.Task{}, err
	}
	t.Mode = model.ModeFixedEvent
	t.Name = tagged(t.Name, model.TagFixedEvent)
	if err := b.tasks.Update(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (b *Breaker) rollback(created []model.Task) {
	for _, t := range created {
		if err := b.tasks.Delete(t.ID); err != nil {
			b.log.Errorf("rollback of %s failed: %v", t.ID, err)
		}
	}
}

func firstDue(sub, orig *time.Time) *time.Time {
	if sub != nil {
		return sub
	}
	return orig
}

func firstScale(sub, orig int) int {
	if sub != 0 {
		return sub
	}
	return orig
}

// baseName strips any legacy bracketed tag from the name.
func baseName(name string) string {
	for _, tag := range []string{model.TagFixedEvent, model.TagMultiSession, model.TagPendingPlanning} {
		name = strings.ReplaceAll(name, tag, "")
	}
	if i := strings.Index(name, model.TagInProgress); i >= 0 {
		if j := strings.Index(name[i:], "]"); j >= 0 {
			name = name[:i] + name[i+j+1:]
		} else {
			name = name[:i]
		}
	}
	return strings.Join(strings.Fields(name), " ")
}

func tagged(name, tag string) string {
	if strings.Contains(name, tag) {
		return name
	}
	return strings.TrimSpace(name) + " " + tag
}
