// Interview Agent - live technical-interview session orchestrator
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/interview-agent/internal/api"
	"github.com/ashureev/interview-agent/internal/backend"
	"github.com/ashureev/interview-agent/internal/config"
	"github.com/ashureev/interview-agent/internal/interview"
	"github.com/ashureev/interview-agent/internal/journal"
	"github.com/ashureev/interview-agent/internal/middleware"
	"github.com/ashureev/interview-agent/internal/pipeline"
	"github.com/ashureev/interview-agent/internal/room"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting interview agent", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	jour, err := journal.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize transcript journal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := jour.Close(); closeErr != nil {
			slog.Error("Failed to close journal", "error", closeErr)
		}
	}()

	if err := jour.Ping(context.Background()); err != nil {
		slog.Error("Journal health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Transcript journal connected", "path", cfg.DBPath)

	backendClient := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout)

	dialPipeline := func(_ context.Context, sessionID string) (pipeline.Pipeline, error) {
		return pipeline.NewWSClient(cfg.PipelineWSURL, sessionID, logger), nil
	}
	dialPublisher := func(ctx context.Context, sessionID string) (room.Publisher, error) {
		return room.Dial(ctx, cfg.RoomWSURL, sessionID, logger)
	}

	manager := interview.NewManager(cfg, backendClient, jour, dialPipeline, dialPublisher, logger)

	// Initialize handlers.
	sessionHandler := api.NewSessionHandler(manager, jour)
	healthHandler := api.NewHealthHandler(jour, cfg)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(corsOrigins(cfg)))

	healthHandler.RegisterHealth(r)
	sessionHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Control plane listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	// Active sessions finish their in-flight transitions before the HTTP
	// listener goes away.
	manager.StopAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Agent stopped successfully")
}

// corsOrigins derives the allowed browser origins from configuration. With no
// configured dashboard URL any origin is admitted, which matches local
// development.
func corsOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
