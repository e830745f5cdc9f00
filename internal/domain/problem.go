package domain

// Problem is one interview question. The backend is the source of truth for
// the problem sequence; the session only tracks its position via ProblemIndex.
type Problem struct {
	ID       int    `json:"id,omitempty"`
	Question string `json:"question"`
}
