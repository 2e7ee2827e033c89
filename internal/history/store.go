package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome values recorded for individual files.
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Run is one recorded batch invocation.
type Run struct {
	ID             string
	Folder         string
	Profile        string
	Status         string
	FilesTotal     int
	FilesProcessed int
	Succeeded      int
	Skipped        int
	Failed         int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// FileRecord is one file's outcome within a run.
type FileRecord struct {
	Path    string
	Outcome string
	Seconds float64
	Detail  string
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    folder          TEXT NOT NULL,
    profile         TEXT NOT NULL,
    status          TEXT NOT NULL,
    files_total     INTEGER NOT NULL,
    files_processed INTEGER NOT NULL DEFAULT 0,
    succeeded       INTEGER NOT NULL DEFAULT 0,
    skipped         INTEGER NOT NULL DEFAULT 0,
    failed          INTEGER NOT NULL DEFAULT 0,
    started_at      TEXT NOT NULL,
    finished_at     TEXT
);
CREATE TABLE IF NOT EXISTS run_files (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    path        TEXT NOT NULL,
    outcome     TEXT NOT NULL,
    seconds     REAL NOT NULL,
    detail      TEXT,
    recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
`

// Open initializes or connects to the history database in stateDir.
func Open(stateDir string) (*Store, error) {
	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts the row for a freshly started batch.
func (s *Store) BeginRun(ctx context.Context, id, folder, profileName string, filesTotal int, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, folder, profile, status, files_total, started_at)
         VALUES (?, ?, ?, 'running', ?, ?)`,
		id, folder, profileName, filesTotal, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFile appends one file outcome to a run.
func (s *Store) RecordFile(ctx context.Context, runID string, record FileRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_files (run_id, path, outcome, seconds, detail, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, record.Path, record.Outcome, record.Seconds,
		nullableString(record.Detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// FinishRun stamps a run's terminal status and counters.
func (s *Store) FinishRun(ctx context.Context, runID, status string, processed, succeeded, skipped, failed int, finishedAt time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET status = ?, files_processed = ?, succeeded = ?, skipped = ?, failed = ?, finished_at = ?
         WHERE id = ?`,
		status, processed, succeeded, skipped, failed,
		finishedAt.UTC().Format(time.RFC3339Nano), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, folder, profile, status, files_total, files_processed,
                succeeded, skipped, failed, started_at, COALESCE(finished_at, '')
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Folder, &run.Profile, &run.Status,
			&run.FilesTotal, &run.FilesProcessed, &run.Succeeded, &run.Skipped,
			&run.Failed, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// FilesForRun returns a run's per-file records in insertion order.
func (s *Store) FilesForRun(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, outcome, seconds, COALESCE(detail, '')
         FROM run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var record FileRecord
		if err := rows.Scan(&record.Path, &record.Outcome, &record.Seconds, &record.Detail); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return records, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
