package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, debounce time.Duration, onChange func([]string)) *Watcher {
	t.Helper()
	w, err := New(debounce, []string{".git", "__pycache__"}, []string{"setup.py"}, onChange)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestIsRelevantFile(t *testing.T) {
	w := newTestWatcher(t, time.Second, func([]string) {})

	cases := map[string]bool{
		"src/module.py":  true,
		"src/stub.pyi":   true,
		"src/Module.PY":  true,
		"src/setup.py":   false,
		"src/module.go":  false,
		"src/notes.txt":  false,
		"src/pyproject":  false,
		"src/module.pyc": false,
	}
	for path, want := range cases {
		if got := w.isRelevantFile(path); got != want {
			t.Errorf("isRelevantFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestShouldExcludeDir(t *testing.T) {
	w := newTestWatcher(t, time.Second, func([]string) {})

	if !w.shouldExcludeDir("/repo/.git") || !w.shouldExcludeDir("/repo/pkg/__pycache__") {
		t.Error("excluded directories should match on base name")
	}
	if w.shouldExcludeDir("/repo/src") {
		t.Error("regular directory must not be excluded")
	}
}

func TestNewRejectsBadGlob(t *testing.T) {
	if _, err := New(time.Second, []string{"[unclosed"}, nil, func([]string) {}); err == nil {
		t.Error("New should reject an invalid dir pattern")
	}
	if _, err := New(time.Second, nil, []string{"[unclosed"}, func([]string) {}); err == nil {
		t.Error("New should reject an invalid file pattern")
	}
}

func TestDebouncedBatching(t *testing.T) {
	var (
		mu      sync.Mutex
		batches [][]string
		done    = make(chan struct{})
	)
	w := newTestWatcher(t, 50*time.Millisecond, func(paths []string) {
		mu.Lock()
		batches = append(batches, paths)
		mu.Unlock()
		close(done)
	})

	w.scheduleChange("a.py")
	w.scheduleChange("b.py")
	w.scheduleChange("a.py") // duplicate collapses

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced flush never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected a single batch, got %d", len(batches))
	}
	got := append([]string(nil), batches[0]...)
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a.py" || got[1] != "b.py" {
		t.Errorf("unexpected batch: %v", got)
	}
}

func TestWatchDeliversWriteEvents(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "module.py")
	if err := os.WriteFile(target, []byte("import os\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []string, 1)
	w := newTestWatcher(t, 50*time.Millisecond, func(paths []string) {
		select {
		case changed <- paths:
		default:
		}
	})

	if err := w.Watch([]string{root}); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(target, []byte("import sys\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changed:
		if len(paths) != 1 || paths[0] != target {
			t.Errorf("unexpected change batch: %v", paths)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("write event never arrived")
	}
}
