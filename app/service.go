// Package app assembles the planning service from configuration: stores,
// metrics sinks, the plan log, the planning manager and the HTTP API.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avallet/chronoplan/api/plan"
	"github.com/avallet/chronoplan/config"
	coremetrics "github.com/avallet/chronoplan/core/metrics"
	"github.com/avallet/chronoplan/core/monitoring"
	"github.com/avallet/chronoplan/core/planner"
	"github.com/avallet/chronoplan/core/planner/logging"
	"github.com/avallet/chronoplan/core/scheduler"
	"github.com/avallet/chronoplan/core/store"
	"github.com/avallet/chronoplan/infra/logger"
	"github.com/avallet/chronoplan/infra/metrics"
	infraMonitoring "github.com/avallet/chronoplan/infra/monitoring"
	"github.com/avallet/chronoplan/internal/eventbus"
)

// Service orchestrates the planning manager, its stores and the HTTP API.
type Service struct {
	Manager *planner.Manager
	Tasks   store.TaskStore
	Free    store.FreeTimeStore

	bus      eventbus.EventBus
	log      logger.Logger
	srv      *http.Server
	promPort string
	sched    *scheduler.Scheduler
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := infraMonitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	manager, err := planner.NewManager(cfg.Planner, sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("planner manager: %w", err)
	}

	logStore, err := newLogStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("plan log: %w", err)
	}
	manager.SetLogStore(logStore)

	tasks := store.NewMemoryTaskStore()
	free := store.NewMemoryFreeTimeStore()

	handler := plan.NewHandler(manager, tasks, free, logStore, "")
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	promPort := ""
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == "prometheus" {
			promPort = cfg.Metrics.PrometheusPort
		}
	}

	svc := &Service{
		Manager:  manager,
		Tasks:    tasks,
		Free:     free,
		bus:      bus,
		log:      logg,
		srv:      srv,
		promPort: promPort,
	}
	if cfg.Scheduler.IntervalMinutes > 0 {
		svc.sched = &scheduler.Scheduler{
			Config:  cfg.Scheduler,
			Manager: manager,
			Tasks:   tasks,
			Free:    free,
			Log:     logg,
		}
	}
	return svc, nil
}

func newLogStore(cfg config.LoggingConfig) (logging.LogStore, error) {
	switch cfg.Backend {
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		if cfg.MaxSizeMB > 0 {
			return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
		}
		return logging.NewJSONLStore(cfg.Path)
	}
}

// Run starts the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promPort != "" {
		prom := metrics.StartPromServer(s.promPort)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = prom.Shutdown(shutdownCtx)
		}()
	}

	if s.sched != nil {
		go func() {
			if err := s.sched.Run(ctx); err != nil {
				s.log.Errorf("scheduler: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		defer monitoring.Recover()
		s.log.Infof("planning API listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		monitoring.CaptureException(err, map[string]string{"component": "http"})
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	monitoring.Flush(2 * time.Second)
	return s.Manager.Close()
}
