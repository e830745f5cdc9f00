package interview

import (
	"context"
	"strings"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
)

// runDialogueMonitor polls the dialogue context on a fixed interval and
// forwards every newly appended spoken turn, in order, to the transcript
// sink. Interviewer turns are additionally scanned for the trigger phrase.
func (c *Controller) runDialogueMonitor(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.DialoguePollInterval)
	defer ticker.Stop()

	failures := newFailureStreak("dialogue_monitor", c.session.ID, c.cfg.FailureAlertStreak, c.logger)

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("[MONITOR] Dialogue monitor stopped")
			return
		case <-ticker.C:
			c.monitorTick(ctx, failures)
		}
	}
}

// monitorTick observes turns appended since the last tick. Observation is
// monotonic: a turn at or below the last observed length is never
// re-processed, even when a forward fails.
func (c *Controller) monitorTick(ctx context.Context, failures *failureStreak) {
	count := c.pipe.TurnCount()
	if count <= c.session.LastTurnCount {
		return
	}

	var tickErr error
	for i := c.session.LastTurnCount; i < count; i++ {
		turn, ok := c.pipe.Turn(i)
		if !ok {
			break
		}
		if !turn.Spoken() {
			continue
		}

		c.logger.Info("[MONITOR] New turn observed",
			"position", i,
			"speaker", turn.Role,
			"chars", len(turn.Text))

		if err := c.sink.Publish(ctx, turn); err != nil {
			tickErr = err
		}

		if turn.Role == domain.RoleAgent && containsTrigger(turn.Text, c.cfg.TriggerPhrase) {
			c.logger.Info("[MONITOR] Trigger phrase detected", "position", i)
			c.startPhaseTransition(ctx)
		}
	}
	c.session.LastTurnCount = count

	if tickErr != nil {
		failures.Observe(tickErr)
		return
	}
	failures.Reset()
}

// containsTrigger reports whether an interviewer turn carries the
// advancement marker. Matching is a case-insensitive substring test.
func containsTrigger(text, phrase string) bool {
	return strings.Contains(strings.ToUpper(text), strings.ToUpper(phrase))
}
