// Package runlog records pipeline runs in a local SQLite database: run
// start/finish, per-file ingestion outcomes, and stage completions.
//
// The journal is observability, not state: every write is best-effort and
// a failing journal never fails the run. A nil *Store is a valid no-op
// journal, so callers wire it unconditionally.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Store writes run events to SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the journal database with the production
// pragmas applied via EXEC.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}

	s := &Store{db: db, logger: slog.Default()}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			run_id      TEXT PRIMARY KEY,
			input_count INTEGER NOT NULL,
			output_path TEXT,
			success     INTEGER,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER
		);
		CREATE TABLE IF NOT EXISTS run_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES pipeline_runs(run_id),
			event_type TEXT NOT NULL,
			subject    TEXT,
			success    INTEGER NOT NULL,
			detail     TEXT,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunStarted records the start of a pipeline run.
func (s *Store) RunStarted(ctx context.Context, runID string, inputCount int) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (run_id, input_count, started_at)
		VALUES (?,?,?)`,
		runID, inputCount, time.Now().Unix())
	if err != nil {
		s.logger.Warn("runlog write failed", "error", err, "event", "run_started")
	}
}

// RunFinished records the outcome of a pipeline run.
func (s *Store) RunFinished(ctx context.Context, runID, outputPath string, success bool) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE pipeline_runs SET output_path = ?, success = ?, finished_at = ?
		WHERE run_id = ?`,
		outputPath, success, time.Now().Unix(), runID)
	if err != nil {
		s.logger.Warn("runlog write failed", "error", err, "event", "run_finished")
	}
}

// FileIngested records one source file's ingestion outcome.
func (s *Store) FileIngested(ctx context.Context, runID, path string, success bool, detail string) {
	s.event(ctx, runID, "file_ingested", path, success, detail)
}

// StageCompleted records the completion of a narrative stage.
func (s *Store) StageCompleted(ctx context.Context, runID, stage, detail string) {
	s.event(ctx, runID, "stage_completed", stage, true, detail)
}

func (s *Store) event(ctx context.Context, runID, eventType, subject string, success bool, detail string) {
	if s == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_events (run_id, event_type, subject, success, detail, created_at)
		VALUES (?,?,?,?,?,?)`,
		runID, eventType, subject, success, detail, time.Now().Unix())
	if err != nil {
		s.logger.Warn("runlog write failed", "error", err, "event", eventType, "subject", subject)
	}
}

// Event is one journaled run event, exposed for inspection and tests.
type Event struct {
	Type    string
	Subject string
	Success bool
	Detail  string
}

// Events returns the events of a run, oldest first.
func (s *Store) Events(ctx context.Context, runID string) ([]Event, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_type, subject, success, detail FROM run_events
		WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Type, &e.Subject, &e.Success, &e.Detail); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
