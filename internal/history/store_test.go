package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadRuns(t *testing.T) {
	store := openTestStore(t)

	first := Snapshot{
		ProjectKey:         "svc",
		Timestamp:          time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		FileCount:          12,
		PrivateNames:       3,
		PrivateModules:     1,
		FromPrivateModules: 2,
		DurationMS:         40,
	}
	second := first
	second.Timestamp = first.Timestamp.Add(time.Hour)
	second.PrivateNames = 1

	if _, err := store.SaveRun(first); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	id, err := store.SaveRun(second)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id == "" {
		t.Error("SaveRun should assign a run id")
	}

	runs, err := store.LoadRuns("svc", time.Time{})
	if err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("runs should come back oldest first")
	}
	if runs[0].PrivateNames != 3 || runs[0].Total() != 6 {
		t.Errorf("unexpected first run: %+v", runs[0])
	}
	if runs[0].SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %d, want %d", runs[0].SchemaVersion, SchemaVersion)
	}
}

func TestLoadRunsSinceFilter(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := Snapshot{ProjectKey: "svc", Timestamp: base.Add(time.Duration(i) * time.Hour)}
		if _, err := store.SaveRun(snap); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := store.LoadRuns("svc", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs after the cutoff, got %d", len(runs))
	}
}

func TestLoadRunsProjectIsolation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveRun(Snapshot{ProjectKey: "a"}); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if _, err := store.SaveRun(Snapshot{}); err != nil { // defaults to "default"
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := store.LoadRuns("a", time.Time{})
	if err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run for project a, got %d", len(runs))
	}

	runs, err = store.LoadRuns("", time.Time{})
	if err != nil {
		t.Fatalf("LoadRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ProjectKey != "default" {
		t.Errorf("expected the defaulted run, got %+v", runs)
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open should reject a directory path")
	}
	if _, err := Open("  "); err == nil {
		t.Error("Open should reject an empty path")
	}
}

func TestSaveRunRejectsUnknownSchema(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveRun(Snapshot{SchemaVersion: SchemaVersion + 1}); err == nil {
		t.Error("SaveRun should reject a newer schema version")
	}
}
