package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Store persists one Snapshot row per completed scan.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores the snapshot, assigning a fresh run id and timestamp if the
// caller left them empty, and returns the run id.
func (s *Store) SaveRun(snapshot Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.RunID == "" {
		snapshot.RunID = uuid.NewString()
	}
	if snapshot.ProjectKey = strings.TrimSpace(snapshot.ProjectKey); snapshot.ProjectKey == "" {
		snapshot.ProjectKey = "default"
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = time.Now().UTC()
	}
	if snapshot.SchemaVersion == 0 {
		snapshot.SchemaVersion = SchemaVersion
	}
	if snapshot.SchemaVersion != SchemaVersion {
		return "", fmt.Errorf("unsupported snapshot schema version %d", snapshot.SchemaVersion)
	}

	query := `
INSERT INTO runs (
  run_id, project_key, schema_version, ts_utc, file_count,
  private_name_count, private_module_count, from_private_module_count, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	err := s.withRetry("save run", func() error {
		_, err := s.db.Exec(
			query,
			snapshot.RunID,
			snapshot.ProjectKey,
			snapshot.SchemaVersion,
			snapshot.Timestamp.UTC().Format(time.RFC3339Nano),
			snapshot.FileCount,
			snapshot.PrivateNames,
			snapshot.PrivateModules,
			snapshot.FromPrivateModules,
			snapshot.DurationMS,
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return snapshot.RunID, nil
}

// LoadRuns returns the snapshots for a project since the given time, oldest
// first.
func (s *Store) LoadRuns(projectKey string, since time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectKey = strings.TrimSpace(projectKey); projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT run_id, project_key, schema_version, ts_utc, file_count,
  private_name_count, private_module_count, from_private_module_count, duration_ms
FROM runs
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var (
			tsRaw    string
			snapshot Snapshot
		)
		if err := rows.Scan(
			&snapshot.RunID,
			&snapshot.ProjectKey,
			&snapshot.SchemaVersion,
			&tsRaw,
			&snapshot.FileCount,
			&snapshot.PrivateNames,
			&snapshot.PrivateModules,
			&snapshot.FromPrivateModules,
			&snapshot.DurationMS,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		snapshot.Timestamp = ts.UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return snapshots, nil
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
