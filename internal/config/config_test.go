package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TriggerPhrase != "NEXT_PROBLEM" {
		t.Errorf("unexpected trigger phrase %q", cfg.TriggerPhrase)
	}
	if cfg.DialoguePollInterval != 500*time.Millisecond {
		t.Errorf("unexpected dialogue poll interval %v", cfg.DialoguePollInterval)
	}
	if cfg.CodePollInterval != 5*time.Second {
		t.Errorf("unexpected code poll interval %v", cfg.CodePollInterval)
	}
	if cfg.MinCodeChars != 30 {
		t.Errorf("unexpected min code chars %d", cfg.MinCodeChars)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRIGGER_PHRASE", "move on")
	t.Setenv("DIALOGUE_POLL_INTERVAL", "250ms")
	t.Setenv("MIN_CODE_CHARS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TriggerPhrase != "move on" {
		t.Errorf("expected trigger phrase override, got %q", cfg.TriggerPhrase)
	}
	if cfg.DialoguePollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval override, got %v", cfg.DialoguePollInterval)
	}
	if cfg.MinCodeChars != 10 {
		t.Errorf("expected min code chars override, got %d", cfg.MinCodeChars)
	}
}

func TestValidateRejectsBadIntervals(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Port:                 "8080",
		DBPath:               "./x.db",
		BackendURL:           "http://localhost:4000",
		RoomWSURL:            "ws://localhost:7880",
		PipelineWSURL:        "ws://localhost:7890",
		TriggerPhrase:        "NEXT_PROBLEM",
		DialoguePollInterval: 0,
		CodePollInterval:     5 * time.Second,
		FailureAlertStreak:   5,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for zero poll interval")
	}
}

func TestValidateRejectsEmptyTrigger(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Port:                 "8080",
		DBPath:               "./x.db",
		BackendURL:           "http://localhost:4000",
		RoomWSURL:            "ws://localhost:7880",
		PipelineWSURL:        "ws://localhost:7890",
		DialoguePollInterval: time.Second,
		CodePollInterval:     time.Second,
		FailureAlertStreak:   5,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty trigger phrase")
	}
}
