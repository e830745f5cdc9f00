package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/ashureev/interview-agent/internal/domain"
)

// runCodeInjector polls the backend for the candidate's current code on a
// coarser interval than the dialogue monitor and appends meaningful changes
// to the model context. Fetch failures are never fatal: the next tick retries
// independently.
func (c *Controller) runCodeInjector(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.CodePollInterval)
	defer ticker.Stop()

	failures := newFailureStreak("code_injector", c.session.ID, c.cfg.FailureAlertStreak, c.logger)

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("[INJECT] Code injector stopped")
			return
		case <-ticker.C:
			c.injectorTick(ctx, failures)
		}
	}
}

func (c *Controller) injectorTick(ctx context.Context, failures *failureStreak) {
	code, err := c.backend.FetchCode(ctx, c.session.ID)
	if err != nil {
		c.logger.Warn("[INJECT] Code fetch failed", "error", err)
		failures.Observe(err)
		return
	}

	snap := domain.CodeSnapshot{
		SessionID: c.session.ID,
		Code:      code,
		FetchedAt: time.Now(),
	}
	if !snap.ShouldInject(c.session.LastCode, c.cfg.MinCodeChars) {
		failures.Reset()
		return
	}

	if err := c.pipe.AppendContext(ctx, formatCodeContext(code)); err != nil {
		// LastCode stays unchanged so the same snapshot is retried next tick.
		c.logger.Warn("[INJECT] Context injection failed", "error", err)
		failures.Observe(err)
		return
	}
	c.session.LastCode = code
	failures.Reset()

	c.logger.Info("[INJECT] Injected code context", "chars", len(code))
}

// formatCodeContext wraps the snapshot so the model can tell injected code
// apart from dialogue.
func formatCodeContext(code string) string {
	return fmt.Sprintf("[CANDIDATE'S CURRENT CODE]\n```\n%s\n```", code)
}
