package interview

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashureev/interview-agent/internal/backend"
	"github.com/ashureev/interview-agent/internal/domain"
	"github.com/ashureev/interview-agent/internal/room"
)

// startPhaseTransition launches the problem-advancement handler as a detached
// task so the dialogue monitor keeps observing turns while the transition
// runs. The phase guard makes re-entrant trigger detections no-ops: only a
// session in AWAITING_TRIGGER may begin a transition, and COMPLETED is
// terminal.
func (c *Controller) startPhaseTransition(ctx context.Context) {
	c.phaseMu.Lock()
	if c.session.Phase != domain.PhaseAwaitingTrigger {
		phase := c.session.Phase
		c.phaseMu.Unlock()
		c.logger.Debug("[PHASE] Trigger ignored", "phase", phase)
		return
	}
	c.session.Phase = domain.PhaseFetchingNext
	c.phaseMu.Unlock()

	// The transition runs past loop cancellation: Shutdown waits on the
	// WaitGroup, and an announced problem must never end half-published.
	transitionCtx := context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.advanceProblem(transitionCtx)
	}()
}

// advanceProblem fetches the next problem and announces it, or closes the
// interview when the backend reports the sequence is exhausted.
func (c *Controller) advanceProblem(ctx context.Context) {
	problem, err := c.backend.NextProblem(ctx, c.session.ID)
	switch {
	case errors.Is(err, backend.ErrNoMoreProblems):
		c.setPhase(domain.PhaseAnnouncing)
		c.finishInterview(ctx)
	case err != nil:
		// A later trigger detection retries; no automatic retry timer.
		c.logger.Warn("[PHASE] Next-problem fetch failed", "error", err)
		c.setPhase(domain.PhaseAwaitingTrigger)
	default:
		c.setPhase(domain.PhaseAnnouncing)
		c.announceProblem(ctx, problem)
	}
}

func (c *Controller) announceProblem(ctx context.Context, problem *domain.Problem) {
	if err := c.pub.Publish(ctx, room.NewQuestionUpdateEvent(problem.Question)); err != nil {
		// Observers miss the update but the spoken interview continues.
		c.logger.Warn("[PHASE] Failed to publish question update", "error", err)
	}

	if err := c.pipe.Reply(ctx, announceInstructions(problem.Question)); err != nil {
		// Stay on the current problem; a later trigger retries the advance.
		c.logger.Error("[PHASE] Failed to announce problem", "error", err)
		c.setPhase(domain.PhaseAwaitingTrigger)
		return
	}

	c.phaseMu.Lock()
	c.session.ProblemIndex++
	c.session.Phase = domain.PhaseAwaitingTrigger
	c.phaseMu.Unlock()

	c.recordSession(ctx)
	c.logger.Info("[PHASE] Advanced to next problem", "problem_index", c.Status().ProblemIndex)
}

func (c *Controller) finishInterview(ctx context.Context) {
	if err := c.pipe.Reply(ctx, "Say this exactly: "+c.cfg.ClosingRemark); err != nil {
		c.logger.Error("[PHASE] Failed to announce closing remark", "error", err)
		c.setPhase(domain.PhaseAwaitingTrigger)
		return
	}

	if err := c.pub.Publish(ctx, room.NewInterviewEndedEvent()); err != nil {
		c.logger.Warn("[PHASE] Failed to publish interview-ended event", "error", err)
	}

	c.setPhase(domain.PhaseCompleted)
	c.recordSession(ctx)
	c.logger.Info("[PHASE] Interview completed")
}

func (c *Controller) recordSession(ctx context.Context) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordSession(ctx, c.sessionSnapshot()); err != nil {
		c.logger.Warn("[PHASE] Failed to journal session state", "error", err)
	}
}

func announceInstructions(question string) string {
	return fmt.Sprintf("Announce the next problem to the candidate and then say this exactly: %s", question)
}
