package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/interview-agent/internal/config"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	journal journal.Journal // optional
	cfg     *config.Config
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(jour journal.Journal, cfg *config.Config) *HealthHandler {
	return &HealthHandler{journal: jour, cfg: cfg}
}

// Health returns the health status of the agent and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	timeout := 5 * time.Second
	if h.cfg != nil {
		timeout = h.cfg.HTTPTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status := map[string]interface{}{
		"status": "healthy",
		"checks": map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	if h.journal != nil {
		if err := h.journal.Ping(ctx); err != nil {
			slog.Error("Health check failed", "error", err)
			status["status"] = "degraded"
			status["checks"].(map[string]string)["journal"] = "unreachable"
			statusCode = http.StatusServiceUnavailable
		} else {
			status["checks"].(map[string]string)["journal"] = "ok"
		}
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
