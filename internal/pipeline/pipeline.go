// Package pipeline adapts the external voice dialogue pipeline behind the
// narrow interface the orchestration core is allowed to see. The core never
// inspects pipeline internals: it observes the turn sequence, appends context,
// and requests replies.
package pipeline

import (
	"context"

	"github.com/ashureev/interview-agent/internal/domain"
)

// Pipeline is the orchestration core's view of the dialogue pipeline.
type Pipeline interface {
	// Start connects the pipeline for the session. A failure here is fatal to
	// session startup.
	Start(ctx context.Context) error

	// TurnCount returns the current length of the dialogue context.
	TurnCount() int

	// Turn returns the turn at the given position, if it exists. Positions are
	// stable: a turn never changes once observed.
	Turn(i int) (domain.Turn, bool)

	// AppendContext appends a non-spoken contextual turn (candidate code) to
	// the model's context window. It produces no audio and no observer event.
	AppendContext(ctx context.Context, text string) error

	// Reply instructs the pipeline to generate and speak a reply following the
	// given instructions.
	Reply(ctx context.Context, instructions string) error

	// Close releases the pipeline connection.
	Close() error
}
