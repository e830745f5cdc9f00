package interview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/interview-agent/internal/config"
	"github.com/ashureev/interview-agent/internal/domain"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/ashureev/interview-agent/internal/pipeline"
	"github.com/ashureev/interview-agent/internal/room"
)

// Controller orchestrates one interview session: it owns the session state,
// runs the opening sequence, and drives the dialogue monitor and code
// injector for the lifetime of the session.
type Controller struct {
	cfg     *config.Config
	session *domain.Session
	pipe    pipeline.Pipeline
	pub     room.Publisher
	backend Backend
	journal journal.Journal // optional
	sink    *Sink
	logger  *slog.Logger

	// phaseMu guards Phase and ProblemIndex: the transition handler runs
	// concurrently with continuing monitor ticks, and a second trigger
	// detection must not start a concurrent transition.
	phaseMu sync.Mutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Status is a read-only view of a session for the control plane.
type Status struct {
	SessionID    string    `json:"session_id"`
	Phase        string    `json:"phase"`
	ProblemIndex int       `json:"problem_index"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewController creates the orchestration instance for one session. The
// journal may be nil.
func NewController(sessionID string, pipe pipeline.Pipeline, pub room.Publisher, backend Backend, jour journal.Journal, cfg *config.Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session_id", sessionID)

	return &Controller{
		cfg:     cfg,
		session: domain.NewSession(sessionID),
		pipe:    pipe,
		pub:     pub,
		backend: backend,
		journal: jour,
		sink:    NewSink(sessionID, pub, backend, jour, logger),
		logger:  logger,
	}
}

// Start connects the dialogue pipeline, runs the opening sequence exactly
// once, then launches the dialogue monitor and code injector. Any failure
// before the monitors launch is fatal: the session does not start.
func (c *Controller) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if err := c.pipe.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("start dialogue pipeline: %w", err)
	}

	if c.journal != nil {
		if err := c.journal.RecordSession(runCtx, c.sessionSnapshot()); err != nil {
			c.logger.Warn("[SESSION] Failed to journal session start", "error", err)
		}
	}

	if err := c.runOpeningSequence(runCtx); err != nil {
		cancel()
		return fmt.Errorf("opening sequence: %w", err)
	}

	// Anything already in the dialogue context belongs to the opening
	// sequence; the monitor must only observe turns appended after it.
	c.session.LastTurnCount = c.pipe.TurnCount()

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.runDialogueMonitor(runCtx)
	}()
	go func() {
		defer c.wg.Done()
		c.runCodeInjector(runCtx)
	}()

	c.logger.Info("[SESSION] Session started",
		"dialogue_poll", c.cfg.DialoguePollInterval,
		"code_poll", c.cfg.CodePollInterval)
	return nil
}

// runOpeningSequence delivers the opening question in strict order: live
// observer event, spoken announcement, durable persist.
func (c *Controller) runOpeningSequence(ctx context.Context) error {
	turn := domain.Turn{Role: domain.RoleAgent, Text: c.cfg.OpeningQuestion, Final: true}

	if err := c.pub.Publish(ctx, room.NewTranscriptEvent(turn)); err != nil {
		return fmt.Errorf("publish opening question: %w", err)
	}
	if err := c.pipe.Reply(ctx, "Say this exactly: "+c.cfg.OpeningQuestion); err != nil {
		return fmt.Errorf("speak opening question: %w", err)
	}
	if err := c.sink.Persist(ctx, turn); err != nil {
		return fmt.Errorf("persist opening question: %w", err)
	}

	c.logger.Info("[SESSION] Opening question delivered")
	return nil
}

// Shutdown cancels both monitoring loops, waits for their current tick and
// any in-flight phase transition to finish, then releases the pipeline and
// room connections. In-flight transitions are allowed to complete so an
// announced problem is never half-published.
func (c *Controller) Shutdown() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	if err := c.pipe.Close(); err != nil {
		c.logger.Warn("[SESSION] Failed to close pipeline", "error", err)
	}
	if err := c.pub.Close(); err != nil {
		c.logger.Warn("[SESSION] Failed to close room publisher", "error", err)
	}

	c.logger.Info("[SESSION] Session shut down", "phase", c.Phase())
}

// Phase returns the current phase of the session.
func (c *Controller) Phase() domain.Phase {
	c.phaseMu.Lock()
	defer c.phaseMu.Unlock()
	return c.session.Phase
}

// Status returns a read-only view of the session.
func (c *Controller) Status() Status {
	c.phaseMu.Lock()
	defer c.phaseMu.Unlock()
	return Status{
		SessionID:    c.session.ID,
		Phase:        c.session.Phase.String(),
		ProblemIndex: c.session.ProblemIndex,
		CreatedAt:    c.session.CreatedAt,
	}
}

// sessionSnapshot copies the journaled session fields under the phase mutex.
// Journal writes happen outside the lock and must never read the live struct;
// the loop cursors (LastTurnCount, LastCode) belong to their loops and are
// not copied.
func (c *Controller) sessionSnapshot() domain.Session {
	c.phaseMu.Lock()
	defer c.phaseMu.Unlock()
	return domain.Session{
		ID:           c.session.ID,
		Phase:        c.session.Phase,
		ProblemIndex: c.session.ProblemIndex,
		CreatedAt:    c.session.CreatedAt,
	}
}

func (c *Controller) setPhase(phase domain.Phase) {
	c.phaseMu.Lock()
	c.session.Phase = phase
	c.phaseMu.Unlock()
	c.logger.Debug("[PHASE] Phase changed", "phase", phase)
}
