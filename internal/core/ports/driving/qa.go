package driving

import (
	"context"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

// AnswerStreamResult carries the final outcome of a streamed answer.
// Exactly one result is delivered, after the token channel closes.
// Answer is well-formed even for cancelled (partial) generations.
type AnswerStreamResult struct {
	Answer *domain.Answer
	Err    error
}

// AnswerService answers natural-language questions against the indexed
// corpus.
type AnswerService interface {
	// Answer runs the full pipeline (embed, retrieve, generate) and blocks
	// until the answer is complete. It rejects with domain.ErrBusy when
	// another operation is in flight.
	Answer(ctx context.Context, query domain.Query) (*domain.Answer, error)

	// AnswerStream runs the same pipeline but forwards text increments on
	// the returned channel as they arrive. The token channel closes when
	// generation finishes or is cancelled; the result channel then
	// delivers exactly one AnswerStreamResult.
	AnswerStream(ctx context.Context, query domain.Query) (<-chan string, <-chan AnswerStreamResult)

	// Retrieve embeds the text and returns the topK most similar chunks
	// without invoking the model. Used by the search surfaces.
	Retrieve(ctx context.Context, text string, topK int) ([]domain.ScoredChunk, error)

	// Phase reports the current answer state machine phase.
	Phase() domain.AnswerPhase
}
