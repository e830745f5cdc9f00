package interview

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestFailureStreakEscalatesOncePerStreak(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	streak := newFailureStreak("dialogue_monitor", "sess-1", 3, logger)
	err := errors.New("backend down")

	streak.Observe(err)
	streak.Observe(err)
	if strings.Contains(buf.String(), "[ALERT]") {
		t.Fatal("alert raised below threshold")
	}

	streak.Observe(err)
	if got := strings.Count(buf.String(), "[ALERT]"); got != 1 {
		t.Fatalf("expected one alert at threshold, got %d", got)
	}

	// Further failures in the same streak do not repeat the alert.
	streak.Observe(err)
	streak.Observe(err)
	if got := strings.Count(buf.String(), "[ALERT]"); got != 1 {
		t.Fatalf("alert repeated within one streak: %d", got)
	}
}

func TestFailureStreakResetRearmsAlert(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	streak := newFailureStreak("code_injector", "sess-1", 2, logger)
	err := errors.New("editor service down")

	streak.Observe(err)
	streak.Observe(err)
	streak.Reset()
	streak.Observe(err)
	streak.Observe(err)

	if got := strings.Count(buf.String(), "[ALERT]"); got != 2 {
		t.Fatalf("expected a fresh alert after reset, got %d alerts", got)
	}
}
