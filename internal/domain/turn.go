package domain

// Role identifies the speaker of a dialogue turn.
type Role string

const (
	// RoleAgent is the automated interviewer.
	RoleAgent Role = "AGENT"
	// RoleCandidate is the human being interviewed.
	RoleCandidate Role = "CANDIDATE"
	// RoleContext marks non-spoken turns injected into the model context
	// (candidate code snapshots). Context turns are never forwarded to
	// observers or the transcript store.
	RoleContext Role = "CONTEXT"
)

// Turn is one attributed utterance in the dialogue. Turns are produced by the
// dialogue pipeline and are read-only to the orchestration core.
type Turn struct {
	Role  Role   `json:"role"`
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Spoken returns true for turns that belong in the transcript, i.e. turns
// attributed to a speaker rather than injected context.
func (t Turn) Spoken() bool {
	return t.Role == RoleAgent || t.Role == RoleCandidate
}
