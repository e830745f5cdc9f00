package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db      *sql.DB
	writeMu sync.Mutex // serializes writes to prevent SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed journal.
func NewSQLite(dbPath string) (Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		phase TEXT NOT NULL,
		problem_index INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		speaker TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_session ON transcripts(session_id, id);
	`
	if _, err := j.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (j *SQLiteJournal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// RecordSession creates or updates the session row.
func (j *SQLiteJournal) RecordSession(ctx context.Context, session domain.Session) error {
	j.writeMu.Lock()
	defer j.writeMu.Unlock()

	query := `
	INSERT INTO sessions (session_id, phase, problem_index, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		phase = excluded.phase,
		problem_index = excluded.problem_index,
		updated_at = excluded.updated_at`

	_, err := j.db.ExecContext(ctx, query,
		session.ID, session.Phase.String(), session.ProblemIndex,
		session.CreatedAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// AppendTranscript journals one spoken turn. Retries with exponential backoff
// when SQLite reports a concurrency conflict.
func (j *SQLiteJournal) AppendTranscript(ctx context.Context, sessionID string, speaker domain.Role, text string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		err := j.appendTranscriptOnce(ctx, sessionID, speaker, text)
		if err == nil {
			return nil
		}

		if isSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("AppendTranscript hit SQLite conflict, retrying",
				"session_id", sessionID,
				"attempt", i+1,
				"delay", delay)
			time.Sleep(delay)
			continue
		}

		return fmt.Errorf("append transcript for %s: %w", sessionID, err)
	}

	return nil
}

func (j *SQLiteJournal) appendTranscriptOnce(ctx context.Context, sessionID string, speaker domain.Role, text string) error {
	j.writeMu.Lock()
	defer j.writeMu.Unlock()

	query := `INSERT INTO transcripts (session_id, speaker, text, created_at) VALUES (?, ?, ?, ?)`
	if _, err := j.db.ExecContext(ctx, query, sessionID, string(speaker), text, time.Now().Unix()); err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// ListTranscripts returns journaled turns for a session in append order.
func (j *SQLiteJournal) ListTranscripts(ctx context.Context, sessionID string) ([]Entry, error) {
	query := `
		SELECT id, session_id, speaker, text, created_at
		FROM transcripts WHERE session_id = ? ORDER BY id ASC`

	rows, err := j.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close transcript rows", "error", closeErr)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var speaker string
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &speaker, &e.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		e.Speaker = domain.Role(speaker)
		e.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}

	return entries, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// isSQLiteConflictError checks for SQLITE_BUSY / "database is locked" errors,
// which warrant a retry.
func isSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
