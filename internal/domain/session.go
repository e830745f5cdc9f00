// Package domain contains core domain types for the interview agent.
package domain

import (
	"time"
)

// Phase is the state of the problem-advancement machine for one session.
type Phase int

const (
	// PhaseAwaitingTrigger means the agent is waiting for the interviewer to
	// signal readiness to advance. Initial state, re-entered after each
	// successful announcement.
	PhaseAwaitingTrigger Phase = iota
	// PhaseFetchingNext means a next-problem request is in flight.
	PhaseFetchingNext
	// PhaseAnnouncing means the new problem (or closing remark) is being
	// published and spoken.
	PhaseAnnouncing
	// PhaseCompleted is terminal; further trigger detections are ignored.
	PhaseCompleted
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingTrigger:
		return "AWAITING_TRIGGER"
	case PhaseFetchingNext:
		return "FETCHING_NEXT"
	case PhaseAnnouncing:
		return "ANNOUNCING"
	case PhaseCompleted:
		return "COMPLETED"
	}
	return "UNKNOWN"
}

// Session holds the mutable state for one interview orchestration instance.
// Each field is written by exactly one of the controller's tasks
// (LastTurnCount by the dialogue monitor, LastCode by the code injector,
// Phase by the transition handler). Phase is additionally guarded by the
// controller's phase mutex because the transition handler runs concurrently
// with continuing monitor ticks.
type Session struct {
	ID            string
	Phase         Phase
	ProblemIndex  int
	LastTurnCount int    // newest dialogue length observed by the monitor
	LastCode      string // last code snapshot injected into the pipeline
	CreatedAt     time.Time
}

// NewSession creates session state for the given room/session identifier.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Phase:     PhaseAwaitingTrigger,
		CreatedAt: time.Now(),
	}
}
