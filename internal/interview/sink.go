// Package interview contains the session orchestration core: the controller,
// its concurrent monitoring loops, the phase-transition state machine, and the
// transcript sink.
package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ashureev/interview-agent/internal/domain"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/ashureev/interview-agent/internal/room"
)

// Backend is the subset of the interview backend the core calls.
type Backend interface {
	FetchCode(ctx context.Context, sessionID string) (string, error)
	SaveTranscript(ctx context.Context, sessionID string, speaker domain.Role, text string) error
	NextProblem(ctx context.Context, sessionID string) (*domain.Problem, error)
}

// Sink mirrors spoken turns to observers and to durable storage. Both
// operations are best-effort with respect to the dialogue flow: failures are
// logged and never block or fail the caller.
type Sink struct {
	sessionID string
	publisher room.Publisher
	backend   Backend
	journal   journal.Journal // optional
	logger    *slog.Logger
}

// NewSink creates a transcript sink for one session. The journal may be nil.
func NewSink(sessionID string, publisher room.Publisher, backend Backend, jour journal.Journal, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		sessionID: sessionID,
		publisher: publisher,
		backend:   backend,
		journal:   jour,
		logger:    logger,
	}
}

// Publish attempts both deliveries for one turn: the live observer event and
// the durable persistence path. Each is attempted exactly once; neither
// failure prevents the other. The returned error is only for failure
// accounting in the caller's loop; every failure is already logged here.
func (s *Sink) Publish(ctx context.Context, turn domain.Turn) error {
	var errs []error

	if err := s.publisher.Publish(ctx, room.NewTranscriptEvent(turn)); err != nil {
		s.logger.Warn("[SINK] Failed to publish transcript event",
			"session_id", s.sessionID,
			"speaker", turn.Role,
			"error", err)
		errs = append(errs, err)
	}

	if err := s.Persist(ctx, turn); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Persist sends the turn down the durable path: the backend transcript store,
// plus the local journal when configured. The journal write is best-effort;
// only the backend failure is returned.
func (s *Sink) Persist(ctx context.Context, turn domain.Turn) error {
	var backendErr error
	if err := s.backend.SaveTranscript(ctx, s.sessionID, turn.Role, turn.Text); err != nil {
		s.logger.Warn("[SINK] Failed to persist transcript",
			"session_id", s.sessionID,
			"speaker", turn.Role,
			"error", err)
		backendErr = fmt.Errorf("persist transcript: %w", err)
	}

	if s.journal != nil {
		if err := s.journal.AppendTranscript(ctx, s.sessionID, turn.Role, turn.Text); err != nil {
			s.logger.Warn("[SINK] Failed to journal transcript",
				"session_id", s.sessionID,
				"error", err)
		}
	}

	return backendErr
}
