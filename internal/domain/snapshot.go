package domain

import (
	"strings"
	"time"
)

// CodeSnapshot is a point-in-time capture of the candidate's editor content,
// fetched from the backend store. Snapshots are ephemeral: they live for one
// injector tick.
type CodeSnapshot struct {
	SessionID string
	Code      string
	FetchedAt time.Time
}

// ShouldInject reports whether the snapshot is worth appending to the model
// context: its trimmed length must exceed minChars and its content must
// differ from the previously injected snapshot. The comparison is over the
// raw content, so a whitespace-only edit to a large enough snapshot does
// re-inject; only the length threshold trims.
func (s CodeSnapshot) ShouldInject(lastInjected string, minChars int) bool {
	if len(strings.TrimSpace(s.Code)) <= minChars {
		return false
	}
	return s.Code != lastInjected
}
