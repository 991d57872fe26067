package runner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gobwas/glob"
	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pni/internal/analyzer"
	"pni/internal/config"
	"pni/internal/core/errors"
	"pni/internal/parser"
	"pni/internal/shared/observability"
)

type FileResult struct {
	Path        string                `json:"path"`
	Diagnostics []analyzer.Diagnostic `json:"diagnostics"`
}

type Result struct {
	Files        []FileResult
	FilesScanned int
	Started      time.Time
	Duration     time.Duration
}

func (r *Result) TotalDiagnostics() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Diagnostics)
	}
	return total
}

func (r *Result) CountByCode() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			counts[d.Code]++
		}
	}
	return counts
}

// Runner walks configured paths and applies the private-import analysis to
// every Python file it finds. It holds no per-file state; the same instance
// serves one-shot scans and watch-mode rescans.
type Runner struct {
	parser       *parser.Parser
	rules        *analyzer.SkipConfig
	paths        []string
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func New(cfg *config.Config, rules *analyzer.SkipConfig) (*Runner, error) {
	r := &Runner{
		parser: parser.New(),
		rules:  rules,
		paths:  cfg.Paths,
	}

	for _, pattern := range cfg.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfig, "invalid exclude dir pattern")
		}
		r.excludeDirs = append(r.excludeDirs, g)
	}
	for _, pattern := range cfg.Exclude.Files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeConfig, "invalid exclude file pattern")
		}
		r.excludeFiles = append(r.excludeFiles, g)
	}

	return r, nil
}

// ScanAll analyzes every Python file under the configured paths.
func (r *Runner) ScanAll(ctx context.Context) (*Result, error) {
	files, err := r.discover()
	if err != nil {
		return nil, err
	}
	return r.AnalyzeFiles(ctx, files)
}

// AnalyzeFiles analyzes the given files and returns their results sorted by
// path. Unsupported and excluded paths are silently dropped so that watch
// events can be passed through unfiltered.
func (r *Runner) AnalyzeFiles(ctx context.Context, paths []string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "runner.AnalyzeFiles",
		trace.WithAttributes(attribute.Int("files.requested", len(paths))))
	defer span.End()

	result := &Result{Started: time.Now()}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.parser.IsSupportedPath(path) || r.ExcludedFile(path) {
			observability.FilesSkippedTotal.WithLabelValues("unsupported").Inc()
			continue
		}
		fr, err := r.analyzeFile(path)
		if err != nil {
			if errors.IsCode(err, errors.CodeNotFound) {
				continue // deleted between discovery and read
			}
			return nil, err
		}
		result.Files = append(result.Files, fr)
		result.FilesScanned++
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	result.Duration = time.Since(result.Started)
	span.SetAttributes(attribute.Int("diagnostics.total", result.TotalDiagnostics()))
	return result, nil
}

func (r *Runner) analyzeFile(path string) (FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileResult{}, errors.Wrap(err, errors.CodeNotFound, "file vanished")
		}
		return FileResult{}, errors.Wrap(err, errors.CodeInternal, "read file")
	}

	fileCtx := analyzer.FileContext{
		Path:       path,
		IsTestFile: parser.IsTestFile(path),
	}

	fr := FileResult{Path: path}
	parseStart := time.Now()
	err = r.parser.WithTree(content, func(root *sitter.Node) error {
		observability.ParseDuration.Observe(time.Since(parseStart).Seconds())

		analyzeStart := time.Now()
		fr.Diagnostics = analyzer.Analyze(root, content, fileCtx, r.rules)
		observability.AnalyzeDuration.Observe(time.Since(analyzeStart).Seconds())
		return nil
	})
	if err != nil {
		return FileResult{}, err
	}

	observability.FilesScannedTotal.Inc()
	for _, d := range fr.Diagnostics {
		observability.DiagnosticsTotal.WithLabelValues(d.Code).Inc()
	}
	return fr, nil
}

// ExcludedFile reports whether the file's base name matches an exclude
// pattern. Exported for the watcher, which shares the same exclusion rules.
func (r *Runner) ExcludedFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range r.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether a directory should be pruned from discovery.
func (r *Runner) ExcludedDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range r.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (r *Runner) discover() ([]string, error) {
	var files []string
	for _, root := range r.paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && r.ExcludedDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if r.parser.IsSupportedPath(path) && !r.ExcludedFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "walk source tree")
		}
	}
	return files, nil
}
