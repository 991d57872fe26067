package main

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"pni/internal/analyzer"
	"pni/internal/config"
	"pni/internal/history"
	"pni/internal/report"
	"pni/internal/runner"
	"pni/internal/shared/observability"
	"pni/internal/shared/util"
	"pni/internal/watcher"
)

// App wires the scanner, history store and watcher together and keeps the
// current per-file diagnostic state for watch mode.
type App struct {
	cfg     *config.Config
	rules   *analyzer.SkipConfig
	runner  *runner.Runner
	store   *history.Store
	limiter *util.RescanLimiter
	watcher *watcher.Watcher

	mu           sync.Mutex
	files        map[string][]analyzer.Diagnostic
	lastDuration time.Duration
}

func NewApp(cfg *config.Config, rules *analyzer.SkipConfig) (*App, error) {
	r, err := runner.New(cfg, rules)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		rules:   rules,
		runner:  r,
		limiter: util.NewRescanLimiter(cfg.Watch.MaxRescansPerSecond),
		files:   make(map[string][]analyzer.Diagnostic),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	return app, nil
}

func (a *App) Close() error {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	return a.store.Close()
}

// RunOnce performs a full scan, writes configured outputs and persists a
// history snapshot.
func (a *App) RunOnce(ctx context.Context) (*runner.Result, error) {
	result, err := a.runner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	a.absorb(result, true)

	if err := a.writeOutputs(result); err != nil {
		return nil, err
	}
	a.saveHistory(result)
	return result, nil
}

// StartWatch begins watching the configured paths. Each debounced batch of
// changes is re-analyzed and the merged state is passed to onUpdate.
func (a *App) StartWatch(ctx context.Context, onUpdate func(*runner.Result)) error {
	w, err := watcher.New(a.cfg.Watch.Debounce, a.cfg.Exclude.Dirs, a.cfg.Exclude.Files, func(changed []string) {
		if err := a.limiter.Wait(ctx); err != nil {
			return
		}
		start := time.Now()

		result, err := a.runner.AnalyzeFiles(ctx, changed)
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}
		a.absorbChanges(changed, result)
		observability.RescanDuration.Observe(time.Since(start).Seconds())

		merged := a.Snapshot()
		if err := a.writeOutputs(merged); err != nil {
			slog.Error("failed to write outputs", "error", err)
		}
		a.saveHistory(merged)

		if onUpdate != nil {
			onUpdate(merged)
		}
	})
	if err != nil {
		return err
	}

	a.watcher = w
	return w.Watch(a.cfg.Paths)
}

// Snapshot returns the merged current state as a Result, files sorted by
// path.
func (a *App) Snapshot() *runner.Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := &runner.Result{
		FilesScanned: len(a.files),
		Duration:     a.lastDuration,
	}
	for path, diags := range a.files {
		result.Files = append(result.Files, runner.FileResult{Path: path, Diagnostics: diags})
	}
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	return result
}

// Health reports the current state for the observability endpoint.
func (a *App) Health() observability.HealthStatus {
	snap := a.Snapshot()
	return observability.HealthStatus{
		Status:       "up",
		FilesScanned: snap.FilesScanned,
		Diagnostics:  snap.TotalDiagnostics(),
	}
}

func (a *App) absorb(result *runner.Result, reset bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if reset {
		a.files = make(map[string][]analyzer.Diagnostic)
	}
	for _, f := range result.Files {
		a.files[f.Path] = f.Diagnostics
	}
	a.lastDuration = result.Duration
}

// absorbChanges merges a rescan batch, dropping state for files that were
// reported changed but no longer exist.
func (a *App) absorbChanges(changed []string, result *runner.Result) {
	analyzed := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		analyzed[f.Path] = true
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range result.Files {
		a.files[f.Path] = f.Diagnostics
	}
	for _, path := range changed {
		if analyzed[path] {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(a.files, path)
		}
	}
	a.lastDuration = result.Duration
}

func (a *App) writeOutputs(result *runner.Result) error {
	if a.cfg.Output.SARIF != "" {
		root, _ := os.Getwd()
		data, err := report.GenerateSARIF(root, result, version)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.cfg.Output.SARIF, data, 0o644); err != nil {
			return err
		}
	}
	if a.cfg.Output.JSON != "" {
		data, err := report.GenerateJSON(result, version)
		if err != nil {
			return err
		}
		if err := os.WriteFile(a.cfg.Output.JSON, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) saveHistory(result *runner.Result) {
	if a.store == nil {
		return
	}
	counts := result.CountByCode()
	_, err := a.store.SaveRun(history.Snapshot{
		ProjectKey:         a.cfg.History.ProjectKey,
		FileCount:          result.FilesScanned,
		PrivateNames:       counts[analyzer.CodePrivateName],
		PrivateModules:     counts[analyzer.CodePrivateModule],
		FromPrivateModules: counts[analyzer.CodeFromPrivateModule],
		DurationMS:         result.Duration.Milliseconds(),
	})
	if err != nil {
		slog.Warn("failed to save history snapshot", "error", err)
	}
}
