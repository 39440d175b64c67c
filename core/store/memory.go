package store

import (
	"sort"
	"sync"
	"time"

	"github.com/avallet/chronoplan/core/model"
	"github.com/google/uuid"
)

// MemoryTaskStore is an in-memory TaskStore safe for concurrent use.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks []model.Task
	index map[string]int
}

// NewMemoryTaskStore creates an empty task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{index: map[string]int{}}
}

func (s *MemoryTaskStore) List() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *MemoryTaskStore) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Task{}, notFound("task", id)
	}
	return s.tasks[i], nil
}

func (s *MemoryTaskStore) Add(t model.Task) (model.Task, error) {
	t = t.Sanitize()
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[t.ID]; ok {
		return model.Task{}, duplicate("task", t.ID)
	}
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *MemoryTaskStore) Update(t model.Task) error {
	t = t.Sanitize()
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[t.ID]
	if !ok {
		return notFound("task", t.ID)
	}
	s.tasks[i] = t
	return nil
}

func (s *MemoryTaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return notFound("task", id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.tasks); j++ {
		s.index[s.tasks[j].ID] = j
	}
	return nil
}

func (s *MemoryTaskStore) Replace(tasks []model.Task) error {
	clean := make([]model.Task, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for _, t := range tasks {
		t = t.Sanitize()
		if err := t.Validate(); err != nil {
			return err
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if _, ok := index[t.ID]; ok {
			return duplicate("task", t.ID)
		}
		index[t.ID] = len(clean)
		clean = append(clean, t)
	}
	s.mu.Lock()
	s.tasks = clean
	s.index = index
	s.mu.Unlock()
	return nil
}

// MemoryFreeTimeStore is an in-memory FreeTimeStore keyed by date. Windows
// on the same date are merged additively, matching how repeated free-time
// entries for one day are treated as one pool of hours.
type MemoryFreeTimeStore struct {
	mu    sync.RWMutex
	hours map[time.Time]float64
}

// NewMemoryFreeTimeStore creates an empty free-time store.
func NewMemoryFreeTimeStore() *MemoryFreeTimeStore {
	return &MemoryFreeTimeStore{hours: map[time.Time]float64{}}
}

func (s *MemoryFreeTimeStore) List() []model.FreeTimeWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FreeTimeWindow, 0, len(s.hours))
	for d, h := range s.hours {
		out = append(out, model.FreeTimeWindow{Date: d, AvailableHours: h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *MemoryFreeTimeStore) Add(w model.FreeTimeWindow) error {
	w = w.Normalize()
	if w.AvailableHours <= 0 {
		return nil
	}
	s.mu.Lock()
	s.hours[w.Date] += w.AvailableHours
	s.mu.Unlock()
	return nil
}

func (s *MemoryFreeTimeStore) Subtract(w model.FreeTimeWindow) error {
	w = w.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hours[w.Date]
	if !ok {
		return notFound("free time window", w.Date.Format("2006-01-02"))
	}
	h -= w.AvailableHours
	if h < 0 {
		h = 0
	}
	s.hours[w.Date] = h
	return nil
}

func (s *MemoryFreeTimeStore) Delete(date time.Time) error {
	date = model.Midnight(date)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hours[date]; !ok {
		return notFound("free time window", date.Format("2006-01-02"))
	}
	delete(s.hours, date)
	return nil
}
