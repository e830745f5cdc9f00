package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/interview-agent/internal/interview"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/go-chi/chi/v5"
)

// SessionHandler exposes session lifecycle endpoints backed by the session
// manager.
type SessionHandler struct {
	mgr     *interview.Manager
	journal journal.Journal // optional
}

// NewSessionHandler creates a session handler. The journal may be nil; the
// transcript endpoint then reports the feature as unavailable.
func NewSessionHandler(mgr *interview.Manager, jour journal.Journal) *SessionHandler {
	return &SessionHandler{mgr: mgr, journal: jour}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/agent/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/", h.ListSessions)
		r.Get("/{sessionID}", h.GetSession)
		r.Delete("/{sessionID}", h.StopSession)
		r.Get("/{sessionID}/transcripts", h.ListTranscripts)
	})
}

type startSessionRequest struct {
	SessionID string `json:"session_id"`
}

// StartSession begins orchestrating an interview session.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ctrl, err := h.mgr.StartSession(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, interview.ErrSessionActive) {
			Error(w, http.StatusConflict, "session already active")
			return
		}
		slog.Error("Failed to start session", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusBadGateway, "failed to start session")
		return
	}

	JSON(w, http.StatusCreated, ctrl.Status())
}

// ListSessions returns every active session.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"sessions": h.mgr.List(),
	})
}

// GetSession returns the status of one session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	status, err := h.mgr.Status(sessionID)
	if err != nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, status)
}

// StopSession shuts the session down and unregisters it.
func (h *SessionHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.mgr.StopSession(sessionID); err != nil {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// ListTranscripts replays the journaled transcript of a session. It works for
// finished sessions too; the journal outlives the in-memory registry.
func (h *SessionHandler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		Error(w, http.StatusServiceUnavailable, "transcript journal disabled")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	entries, err := h.journal.ListTranscripts(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to list transcripts", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to list transcripts")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id":  sessionID,
		"transcripts": entries,
	})
}
