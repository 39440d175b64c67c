package plan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avallet/chronoplan/core/model"
	"github.com/avallet/chronoplan/core/planner"
	"github.com/avallet/chronoplan/core/planner/logging"
	"github.com/avallet/chronoplan/core/store"
)

type memLogStore struct{ recs []logging.PlanRecord }

func (m *memLogStore) Append(_ context.Context, r logging.PlanRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memLogStore) Query(_ context.Context, q logging.LogQuery) ([]logging.PlanRecord, error) {
	var res []logging.PlanRecord
	for _, r := range m.recs {
		if q.Policy != "" && r.Policy != q.Policy {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func (m *memLogStore) Close() error { return nil }

func fixture(t *testing.T, token string) (*Handler, *memLogStore) {
	t.Helper()
	m, err := planner.NewManager(planner.Config{}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	logs := &memLogStore{}
	m.SetLogStore(logs)
	tasks := store.NewMemoryTaskStore()
	free := store.NewMemoryFreeTimeStore()
	due := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	if _, err := tasks.Add(model.Task{ID: "t1", Name: "write report", EstimatedHours: 5, DueDate: &due}); err != nil {
		t.Fatal(err)
	}
	if err := free.Add(model.FreeTimeWindow{Date: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), AvailableHours: 2}); err != nil {
		t.Fatal(err)
	}
	return NewHandler(m, tasks, free, logs, token), logs
}

func TestRunEndpoint_UsesStores(t *testing.T) {
	h, logs := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/plan/run", "application/json",
		strings.NewReader(`{"today":"2026-09-01"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var plan planner.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].AllocatedHours != 2 {
		t.Fatalf("unexpected allocations: %#v", plan.Allocations)
	}
	if len(plan.Shortfalls) != 1 || plan.Shortfalls[0].UnallocatedHours != 3 {
		t.Fatalf("unexpected shortfalls: %#v", plan.Shortfalls)
	}
	if len(logs.recs) != 1 {
		t.Fatalf("run should be persisted: %#v", logs.recs)
	}
}

func TestRunEndpoint_InlinePayload(t *testing.T) {
	h, _ := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	body := `{
		"today": "2026-09-01",
		"tasks": [{"id":"x","name":"x","estimated_hours":1,"due_date":"2026-09-02T00:00:00Z"}],
		"free_time": [{"date":"2026-09-02T00:00:00Z","available_hours":4}]
	}`
	resp, err := http.Post(srv.URL+"/api/plan/run", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var plan planner.Plan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatal(err)
	}
	if len(plan.Allocations) != 1 || plan.Allocations[0].TaskID != "x" {
		t.Fatalf("inline payload should override stores: %#v", plan.Allocations)
	}
	if len(plan.Shortfalls) != 0 {
		t.Fatalf("unexpected shortfalls: %#v", plan.Shortfalls)
	}
}

func TestRunEndpoint_BadToday(t *testing.T) {
	h, _ := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/plan/run", "application/json",
		strings.NewReader(`{"today":"tomorrow"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestShortfallsEndpoint(t *testing.T) {
	h, _ := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/plan/shortfalls")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before first run, got %d", resp.StatusCode)
	}

	if _, err := http.Post(srv.URL+"/api/plan/run", "application/json",
		strings.NewReader(`{"today":"2026-09-01"}`)); err != nil {
		t.Fatal(err)
	}
	resp, err = http.Get(srv.URL + "/api/plan/shortfalls")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var recs []model.ShortfallRecord
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].TaskID != "t1" {
		t.Fatalf("unexpected shortfalls: %#v", recs)
	}
}

func TestLogsEndpoint_Filters(t *testing.T) {
	h, _ := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	if _, err := http.Post(srv.URL+"/api/plan/run", "application/json",
		strings.NewReader(`{"today":"2026-09-01"}`)); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(srv.URL + "/api/plan/logs?policy=greedy")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var recs []logging.PlanRecord
	if err := json.NewDecoder(resp.Body).Decode(&recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record: %#v", recs)
	}

	resp2, err := http.Get(srv.URL + "/api/plan/logs?policy=fairness")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var empty []logging.PlanRecord
	if err := json.NewDecoder(resp2.Body).Decode(&empty); err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("policy filter ignored: %#v", empty)
	}
}

func TestAuth(t *testing.T) {
	h, _ := fixture(t, "secret")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/plan/shortfalls")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/plan/shortfalls", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		t.Fatal("valid token rejected")
	}
}

func TestMethodChecks(t *testing.T) {
	h, _ := fixture(t, "")
	srv := httptest.NewServer(h.Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/plan/run")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET run should be rejected, got %d", resp.StatusCode)
	}
}
