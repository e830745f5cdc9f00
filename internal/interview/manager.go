package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ashureev/interview-agent/internal/config"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/ashureev/interview-agent/internal/pipeline"
	"github.com/ashureev/interview-agent/internal/room"
)

var (
	// ErrSessionActive is returned when a session with the same id is already
	// being orchestrated.
	ErrSessionActive = errors.New("session already active")
	// ErrSessionNotFound is returned for operations on unknown sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// PipelineDialer creates the dialogue pipeline client for one session.
type PipelineDialer func(ctx context.Context, sessionID string) (pipeline.Pipeline, error)

// PublisherDialer connects the room publisher for one session.
type PublisherDialer func(ctx context.Context, sessionID string) (room.Publisher, error)

// Manager owns the set of running orchestration instances, one per session.
type Manager struct {
	cfg           *config.Config
	backend       Backend
	journal       journal.Journal // optional
	dialPipeline  PipelineDialer
	dialPublisher PublisherDialer
	logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewManager creates a session manager. Dialers are injected so tests can
// substitute fakes for the real WebSocket collaborators.
func NewManager(cfg *config.Config, backend Backend, jour journal.Journal, dialPipeline PipelineDialer, dialPublisher PublisherDialer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:           cfg,
		backend:       backend,
		journal:       jour,
		dialPipeline:  dialPipeline,
		dialPublisher: dialPublisher,
		logger:        logger,
		sessions:      make(map[string]*Controller),
	}
}

// StartSession begins orchestrating the given session. Startup failures are
// fatal to the session: nothing is registered and all partially opened
// connections are released.
func (m *Manager) StartSession(ctx context.Context, sessionID string) (*Controller, error) {
	m.mu.Lock()
	if _, exists := m.sessions[sessionID]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionActive)
	}
	// Reserve the slot before the slow dials so a concurrent start of the
	// same session fails fast.
	m.sessions[sessionID] = nil
	m.mu.Unlock()

	ctrl, err := m.dialAndStart(ctx, sessionID)
	m.mu.Lock()
	if err != nil {
		delete(m.sessions, sessionID)
	} else {
		m.sessions[sessionID] = ctrl
	}
	m.mu.Unlock()
	return ctrl, err
}

// dialAndStart runs with m.mu released; the caller holds only the reserved
// registry slot for this session.
func (m *Manager) dialAndStart(ctx context.Context, sessionID string) (*Controller, error) {
	pub, err := m.dialPublisher(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("connect room publisher: %w", err)
	}

	pipe, err := m.dialPipeline(ctx, sessionID)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create pipeline client: %w", err)
	}

	ctrl := NewController(sessionID, pipe, pub, m.backend, m.journal, m.cfg, m.logger)
	if err := ctrl.Start(ctx); err != nil {
		_ = pipe.Close()
		_ = pub.Close()
		return nil, fmt.Errorf("start session %s: %w", sessionID, err)
	}

	m.logger.Info("[MANAGER] Session registered", "session_id", sessionID)
	return ctrl, nil
}

// StopSession shuts down one session and removes it from the registry.
func (m *Manager) StopSession(sessionID string) error {
	m.mu.Lock()
	ctrl, exists := m.sessions[sessionID]
	if exists {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !exists || ctrl == nil {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}

	ctrl.Shutdown()
	m.logger.Info("[MANAGER] Session stopped", "session_id", sessionID)
	return nil
}

// Status returns the view of one session.
func (m *Manager) Status(sessionID string) (Status, error) {
	m.mu.Lock()
	ctrl, exists := m.sessions[sessionID]
	m.mu.Unlock()

	if !exists || ctrl == nil {
		return Status{}, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return ctrl.Status(), nil
}

// List returns the status of every active session.
func (m *Manager) List() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make([]Status, 0, len(m.sessions))
	for _, ctrl := range m.sessions {
		if ctrl != nil {
			statuses = append(statuses, ctrl.Status())
		}
	}
	return statuses
}

// StopAll shuts down every active session. Used on process shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	ctrls := make([]*Controller, 0, len(m.sessions))
	for id, ctrl := range m.sessions {
		if ctrl != nil {
			ctrls = append(ctrls, ctrl)
		}
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, ctrl := range ctrls {
		ctrl.Shutdown()
	}
	m.logger.Info("[MANAGER] All sessions stopped", "count", len(ctrls))
}
