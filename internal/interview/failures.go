package interview

import (
	"log/slog"
)

// failureStreak tracks consecutive failures of one monitoring loop and
// escalates to a session-level alert when the streak crosses the threshold,
// without ever terminating the loop. It is owned by a single goroutine and
// needs no locking.
type failureStreak struct {
	component string
	sessionID string
	threshold int
	logger    *slog.Logger

	count     int
	escalated bool
}

func newFailureStreak(component, sessionID string, threshold int, logger *slog.Logger) *failureStreak {
	return &failureStreak{
		component: component,
		sessionID: sessionID,
		threshold: threshold,
		logger:    logger,
	}
}

// Observe records one failed tick. The individual failure is logged by the
// caller; this only raises the alert when the streak gets long enough.
func (f *failureStreak) Observe(err error) {
	f.count++
	if f.count >= f.threshold && !f.escalated {
		f.escalated = true
		f.logger.Error("[ALERT] Consecutive failures exceeded threshold",
			"component", f.component,
			"session_id", f.sessionID,
			"consecutive_failures", f.count,
			"error", err)
	}
}

// Reset clears the streak after a successful tick.
func (f *failureStreak) Reset() {
	f.count = 0
	f.escalated = false
}
