package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pni_parse_seconds",
		Help:    "Time spent parsing a Python source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pni_analyze_seconds",
		Help:    "Time spent classifying imports in a parsed file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pni_files_scanned_total",
		Help: "Total number of Python files analyzed.",
	})

	FilesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pni_files_skipped_total",
		Help: "Total number of files skipped before analysis.",
	}, []string{"reason"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pni_diagnostics_total",
		Help: "Total number of diagnostics emitted, by rule code.",
	}, []string{"code"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pni_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pni_rescan_seconds",
		Help:    "Latency of a watch-mode incremental rescan.",
		Buckets: prometheus.DefBuckets,
	})
)
