// Package room publishes live session events to interview observers through
// the realtime room gateway.
package room

import (
	"github.com/ashureev/interview-agent/internal/domain"
)

// Event types delivered to observers as reliable data messages.
const (
	EventTypeTranscript     = "transcript"
	EventTypeQuestionUpdate = "question_update"
	EventTypeControl        = "control"
)

// ActionInterviewEnded signals that the session reached its terminal phase.
const ActionInterviewEnded = "INTERVIEW_ENDED"

// TranscriptEvent mirrors one spoken turn to observers.
type TranscriptEvent struct {
	Type    string      `json:"type"`
	Speaker domain.Role `json:"speaker"`
	Text    string      `json:"text"`
	Final   bool        `json:"final"`
}

// QuestionUpdateEvent announces the problem the interview moved to.
type QuestionUpdateEvent struct {
	Type     string `json:"type"`
	Question string `json:"question"`
}

// ControlEvent carries session lifecycle signals.
type ControlEvent struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

// NewTranscriptEvent builds the observer payload for a spoken turn.
func NewTranscriptEvent(turn domain.Turn) TranscriptEvent {
	return TranscriptEvent{
		Type:    EventTypeTranscript,
		Speaker: turn.Role,
		Text:    turn.Text,
		Final:   turn.Final,
	}
}

// NewQuestionUpdateEvent builds the observer payload for a problem change.
func NewQuestionUpdateEvent(question string) QuestionUpdateEvent {
	return QuestionUpdateEvent{Type: EventTypeQuestionUpdate, Question: question}
}

// NewInterviewEndedEvent builds the observer payload for session end.
func NewInterviewEndedEvent() ControlEvent {
	return ControlEvent{Type: EventTypeControl, Action: ActionInterviewEnded}
}
