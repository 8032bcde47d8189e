package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkahdian/kcmap/config"
	"github.com/dkahdian/kcmap/consistency"
	"github.com/dkahdian/kcmap/dataset"
	"github.com/dkahdian/kcmap/metrics"
	"github.com/dkahdian/kcmap/propagate"
	"github.com/dkahdian/kcmap/watch"
)

// App wires the dataset store, propagation engine, and consistency
// validator together behind the CLI commands.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Propagate re-derives the closure of the manual facts and saves the
// dataset in place.
func (a *App) Propagate(ctx context.Context) error {
	db, err := dataset.Load(a.cfg.Dataset.Path)
	if err != nil {
		return err
	}

	engine := propagate.NewEngine(propagate.Options{
		Logger:        a.logger,
		MaxIterations: a.cfg.Propagation.MaxIterations,
	})

	report, err := engine.Run(db)
	if err != nil {
		return err
	}

	if err := dataset.Save(db, a.cfg.Dataset.Path); err != nil {
		return err
	}

	fmt.Printf("Propagation converged in %d iterations (%s)\n", report.Iterations, report.Duration.Round(time.Millisecond))
	fmt.Printf("  stripped: %d cells, %d operation entries\n", report.StrippedCells, report.StrippedOperations)
	fmt.Printf("  derived:  %d edge facts, %d operation facts\n", report.EdgeFacts, report.OperationFacts)

	// The audit is advisory here: the closure is saved either way, and
	// `kcmap validate` is the strict gate.
	for _, r := range consistency.Validate(db).Results {
		if !r.OK {
			a.logger.Warn("Consistency check failed",
				"check", r.Name,
				"message", r.Message)
		}
	}
	return nil
}

// Validate audits the dataset for contradictions and reports each check.
func (a *App) Validate(ctx context.Context) error {
	db, err := dataset.Load(a.cfg.Dataset.Path)
	if err != nil {
		return err
	}

	summary := consistency.Validate(db)
	for _, r := range summary.Results {
		if r.OK {
			fmt.Printf("✓ %s\n", r.Name)
			continue
		}
		fmt.Printf("✗ %s: %s\n", r.Name, r.Message)
		if len(r.Path) > 0 {
			fmt.Printf("  witness path: %s\n", strings.Join(r.Path, " -> "))
		}
	}

	if !summary.OK {
		return errors.New("dataset is inconsistent")
	}
	return nil
}

// ClearMatrix resets the adjacency matrix to all-unknown, keeping
// languages and references intact.
func (a *App) ClearMatrix() error {
	db, err := dataset.Load(a.cfg.Dataset.Path)
	if err != nil {
		return err
	}

	db.ClearMatrix()

	if err := dataset.Save(db, a.cfg.Dataset.Path); err != nil {
		return err
	}

	fmt.Printf("Cleared adjacency matrix (%d languages)\n", len(db.Languages))
	return nil
}

// ClearDatabase resets the dataset to an empty skeleton. A missing file is
// not an error: the skeleton is written from scratch.
func (a *App) ClearDatabase() error {
	db, err := dataset.Load(a.cfg.Dataset.Path)
	if err != nil {
		if !errors.Is(err, dataset.ErrNotFound) {
			return err
		}
		db = &dataset.Database{}
	}

	db.ClearAll()

	if err := dataset.Save(db, a.cfg.Dataset.Path); err != nil {
		return err
	}

	fmt.Println("Cleared database")
	return nil
}

// Watch re-runs propagation whenever the dataset changes and serves
// Prometheus metrics until interrupted.
func (a *App) Watch(ctx context.Context) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	server := a.startMetricsServer(reg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	watcher, err := watch.NewWatcher(watch.Config{
		Root:     filepath.Dir(a.cfg.Dataset.Path),
		Patterns: a.cfg.Watch.Patterns,
		Debounce: a.cfg.Watch.Debounce,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(signalCtx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	// Run once up front so metrics reflect the current dataset
	a.propagateOnce(m)

	for {
		select {
		case <-signalCtx.Done():
			a.logger.Info("Received shutdown signal")
			return nil

		case event, okCh := <-watcher.Events():
			if !okCh {
				return nil
			}
			a.logger.Info("Dataset changed", "paths", event.Paths)
			// Saving derived facts retriggers the watcher once; the
			// content-hash check stops the cycle after the idempotent
			// follow-up run.
			a.propagateOnce(m)
		}
	}
}

// propagateOnce runs one propagate-save-validate cycle and records the
// outcome. Watch mode never aborts on a bad dataset: the curator fixes the
// file and the next change triggers another run.
func (a *App) propagateOnce(m *metrics.Metrics) {
	db, err := dataset.Load(a.cfg.Dataset.Path)
	if err != nil {
		a.logger.Error("Failed to load dataset", "error", err)
		m.RecordRun(0, 0, 0, 0, false)
		return
	}

	engine := propagate.NewEngine(propagate.Options{
		Logger:        a.logger,
		MaxIterations: a.cfg.Propagation.MaxIterations,
	})

	report, err := engine.Run(db)
	if err != nil {
		a.logger.Error("Propagation failed", "error", err)
		m.RecordRun(0, 0, 0, 0, false)
		return
	}

	if err := dataset.Save(db, a.cfg.Dataset.Path); err != nil {
		a.logger.Error("Failed to save dataset", "error", err)
		m.RecordRun(0, 0, 0, 0, false)
		return
	}

	m.RecordRun(report.Duration.Seconds(), report.Iterations, report.EdgeFacts, report.OperationFacts, true)

	summary := consistency.Validate(db)
	for _, r := range summary.Results {
		if r.OK {
			continue
		}
		m.RecordConsistencyFailure(r.Name)
		a.logger.Warn("Consistency check failed",
			"check", r.Name,
			"message", r.Message)
	}
}

func (a *App) startMetricsServer(reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:    a.cfg.Watch.MetricsAddr,
		Handler: mux,
	}

	go func() {
		a.logger.Info("Metrics server listening", "addr", a.cfg.Watch.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server error", "error", err)
		}
	}()

	return server
}
