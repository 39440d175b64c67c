// Package plan exposes the planning engine over HTTP: running a plan,
// reading the resulting shortfalls and querying the persisted run log.
package plan

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/planner"
	"github.com/avallet/chronoplan/core/planner/logging"
	"github.com/avallet/chronoplan/core/store"
)

// Handler serves the planning API.
type Handler struct {
	manager *planner.Manager
	tasks   store.TaskStore
	free    store.FreeTimeStore
	logs    logging.LogStore
	token   string
}

// NewHandler creates a handler. The log store may be nil, which disables the
// logs endpoint. A non-empty token requires "Bearer <token>" authorization on
// every request.
func NewHandler(m *planner.Manager, tasks store.TaskStore, free store.FreeTimeStore, logs logging.LogStore, token string) *Handler {
	return &Handler{manager: m, tasks: tasks, free: free, logs: logs, token: token}
}

// Mux returns the routed handler.
func (h *Handler) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/plan/run", h.auth(h.run))
	mux.HandleFunc("/api/plan/shortfalls", h.auth(h.shortfalls))
	mux.HandleFunc("/api/plan/logs", h.auth(h.logsHandler))
	return mux
}

func (h *Handler) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// runRequest optionally carries tasks and free time to plan with; when both
// are empty the authoritative stores are used.
type runRequest struct {
	Tasks    []model.Task           `json:"tasks"`
	FreeTime []model.FreeTimeWindow `json:"free_time"`
	Today    string                 `json:"today"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	today := time.Now().UTC()
	if req.Today != "" {
		t, err := time.Parse("2006-01-02", req.Today)
		if err != nil {
			http.Error(w, "today must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		today = t
	}
	tasks := req.Tasks
	if len(tasks) == 0 {
		tasks = h.tasks.List()
	}
	free := req.FreeTime
	if len(free) == 0 {
		free = h.free.List()
	}
	plan := h.manager.Run(r.Context(), tasks, free, today)
	writeJSON(w, plan)
}

func (h *Handler) shortfalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	plan, ok := h.manager.LastPlan()
	if !ok {
		http.Error(w, "no plan computed yet", http.StatusNotFound)
		return
	}
	if plan.Shortfalls == nil {
		plan.Shortfalls = []model.ShortfallRecord{}
	}
	writeJSON(w, plan.Shortfalls)
}

func (h *Handler) logsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.logs == nil {
		http.Error(w, "plan log not configured", http.StatusNotFound)
		return
	}
	q := logging.LogQuery{
		TaskID: r.URL.Query().Get("task_id"),
		Policy: r.URL.Query().Get("policy"),
	}
	if s := r.URL.Query().Get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	records, err := h.logs.Query(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []logging.PlanRecord{}
	}
	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
