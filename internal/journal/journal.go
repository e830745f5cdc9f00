// Package journal provides the local durable transcript journal. Every turn
// the agent forwards to the backend is also journaled here so transcripts
// survive backend outages.
package journal

import (
	"context"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
)

// Entry is one journaled transcript line.
type Entry struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"session_id"`
	Speaker   domain.Role `json:"speaker"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// Journal defines the interface for the local transcript store.
type Journal interface {
	// RecordSession creates or updates the session row. It takes a copy so
	// callers can pass a snapshot of concurrently mutated session state.
	RecordSession(ctx context.Context, session domain.Session) error

	// AppendTranscript journals one spoken turn.
	AppendTranscript(ctx context.Context, sessionID string, speaker domain.Role, text string) error

	// ListTranscripts returns journaled turns for a session in append order.
	ListTranscripts(ctx context.Context, sessionID string) ([]Entry, error)

	// Ping verifies the journal is reachable.
	Ping(ctx context.Context) error

	// Close closes the underlying database.
	Close() error
}
