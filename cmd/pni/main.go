package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pni/internal/analyzer"
	"pni/internal/config"
	"pni/internal/report"
	"pni/internal/runner"
	"pni/internal/shared/observability"
)

var (
	configPath = flag.String("config", "./pni.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Keep running and re-check files on change")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies --watch)")
	sarifOut   = flag.String("sarif", "", "Write a SARIF report to this path")
	jsonOut    = flag.String("json", "", "Write a JSON report to this path")
	trends     = flag.Bool("trends", false, "Print recent runs from the history database and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	versionArg = flag.Bool("version", false, "Print version and exit")

	skipNames            = flag.String("skip-names", "", "Comma separated private names that must not be reported (plain name or module.path.name)")
	skipModules          = flag.String("skip-modules", "", "Comma separated private modules whose import must not be reported")
	skipNamesFromModules = flag.String("skip-names-from-modules", "", "Comma separated modules whose private names must not be reported")
	skipLocal            = flag.Bool("skip-local", false, "Do not report imports inside functions")
	skipRelative         = flag.Bool("skip-relative", false, "Do not report relative imports")
	dontSkipTest         = flag.Bool("dont-skip-test", false, "Check test directories and files too")
	dontSkipTypeChecking = flag.Bool("dont-skip-type-checking", false, "Check imports under TYPE_CHECKING too")
)

const version = "1.0.0"

func main() {
	flag.Parse()

	if *versionArg {
		fmt.Printf("pni v%s\n", version)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; a missing default config file is not an error.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./pni.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(2)
		}
	}
	mergeFlags(cfg)

	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	rules, err := analyzer.Compile(cfg.SkipOptions())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	app, err := NewApp(cfg, rules)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer app.Close()

	ctx := context.Background()

	if *trends {
		if err := printTrends(app); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(2)
		}
		os.Exit(0)
	}

	if cfg.Observability.TraceEndpoint != "" && (*watch || *ui) {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.TraceEndpoint, version)
		if err != nil {
			slog.Warn("failed to set up tracing", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initial scan
	result, err := app.RunOnce(ctx)
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(2)
	}

	if !*watch && !*ui {
		report.WriteText(os.Stdout, result)
		report.WriteSummary(os.Stderr, result)
		if result.TotalDiagnostics() > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	if cfg.Observability.Addr != "" {
		server := observability.NewServer(cfg.Observability.Addr, app.Health)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
		} else {
			defer server.Stop(ctx)
		}
	}

	if *ui {
		if err := runUI(ctx, app, result); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(2)
		}
		return
	}

	err = app.StartWatch(ctx, func(r *runner.Result) {
		report.WriteSummary(os.Stderr, r)
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(2)
	}
	report.WriteSummary(os.Stderr, result)
	select {}
}

// mergeFlags lets explicitly passed CLI flags override config file values.
func mergeFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "skip-names":
			cfg.Skip.Names = []string{*skipNames}
		case "skip-modules":
			cfg.Skip.Modules = []string{*skipModules}
		case "skip-names-from-modules":
			cfg.Skip.NamesFromModules = []string{*skipNamesFromModules}
		case "skip-local":
			cfg.Skip.Local = *skipLocal
		case "skip-relative":
			cfg.Skip.Relative = *skipRelative
		case "dont-skip-test":
			cfg.Skip.DontSkipTest = *dontSkipTest
		case "dont-skip-type-checking":
			cfg.Skip.DontSkipTypeChecking = *dontSkipTypeChecking
		case "sarif":
			cfg.Output.SARIF = *sarifOut
		case "json":
			cfg.Output.JSON = *jsonOut
		}
	})
}

func printTrends(app *App) error {
	if app.store == nil {
		return fmt.Errorf("no history database configured (set history.path in the config file)")
	}
	runs, err := app.store.LoadRuns(app.cfg.History.ProjectKey, time.Time{})
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s  files=%d findings=%d (PNI001=%d PNI002=%d PNI003=%d) %dms\n",
			run.Timestamp.Format(time.RFC3339), run.FileCount, run.Total(),
			run.PrivateNames, run.PrivateModules, run.FromPrivateModules, run.DurationMS)
	}
	return nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pni", "pni.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "pni", "pni.log")
	}

	return "pni.log"
}
