// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	// External collaborators.
	BackendURL    string // interview backend (problems, transcripts, code)
	RoomWSURL     string // realtime room gateway for observer events
	PipelineWSURL string // voice dialogue pipeline service

	// Orchestration tuning.
	DialoguePollInterval time.Duration // monitor tick
	CodePollInterval     time.Duration // injector tick
	MinCodeChars         int           // trimmed-length threshold for injection
	TriggerPhrase        string        // interviewer phrase that advances the interview
	OpeningQuestion      string
	ClosingRemark        string
	HTTPTimeout          time.Duration // per-request budget for backend calls
	FailureAlertStreak   int           // consecutive loop failures before escalation
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/interview.db"),

		BackendURL:    getEnv("BACKEND_URL", "http://localhost:4000"),
		RoomWSURL:     getEnv("ROOM_WS_URL", "ws://localhost:7880"),
		PipelineWSURL: getEnv("PIPELINE_WS_URL", "ws://localhost:7890"),

		DialoguePollInterval: getEnvDuration("DIALOGUE_POLL_INTERVAL", 500*time.Millisecond),
		CodePollInterval:     getEnvDuration("CODE_POLL_INTERVAL", 5*time.Second),
		MinCodeChars:         getEnvInt("MIN_CODE_CHARS", 30),
		TriggerPhrase:        getEnv("TRIGGER_PHRASE", "NEXT_PROBLEM"),
		OpeningQuestion: getEnv("OPENING_QUESTION",
			"Given an array of integers, return indices of two numbers that add up to a target."),
		ClosingRemark:      getEnv("CLOSING_REMARK", "Great job! We've completed all problems."),
		HTTPTimeout:        getEnvDuration("HTTP_TIMEOUT", 5*time.Second),
		FailureAlertStreak: getEnvInt("FAILURE_ALERT_STREAK", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}
	if c.RoomWSURL == "" {
		return fmt.Errorf("ROOM_WS_URL cannot be empty")
	}
	if c.PipelineWSURL == "" {
		return fmt.Errorf("PIPELINE_WS_URL cannot be empty")
	}
	if c.TriggerPhrase == "" {
		return fmt.Errorf("TRIGGER_PHRASE cannot be empty")
	}
	if c.DialoguePollInterval <= 0 {
		return fmt.Errorf("DIALOGUE_POLL_INTERVAL must be > 0")
	}
	if c.CodePollInterval <= 0 {
		return fmt.Errorf("CODE_POLL_INTERVAL must be > 0")
	}
	if c.MinCodeChars < 0 {
		return fmt.Errorf("MIN_CODE_CHARS must be >= 0")
	}
	if c.FailureAlertStreak <= 0 {
		return fmt.Errorf("FAILURE_ALERT_STREAK must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
