package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
	"github.com/vellumlabs/docchat-cli/internal/logger"
)

// Ensure QAEngine implements the interface.
var _ driving.AnswerService = (*QAEngine)(nil)

// QAEngine answers questions over the indexed corpus: it embeds the
// question, retrieves the closest chunks, builds a grounded prompt and
// generates an answer with source citations.
type QAEngine struct {
	vectorStore driven.VectorStore
	embedder    driven.EmbeddingClient
	llm         driven.LLMService
	controller  driving.OperationController
	cfg         *domain.Config

	mu    sync.Mutex
	phase domain.AnswerPhase
}

// NewQAEngine creates a new question-answering engine.
func NewQAEngine(
	vectorStore driven.VectorStore,
	embedder driven.EmbeddingClient,
	llm driven.LLMService,
	controller driving.OperationController,
	cfg *domain.Config,
) *QAEngine {
	return &QAEngine{
		vectorStore: vectorStore,
		embedder:    embedder,
		llm:         llm,
		controller:  controller,
		cfg:         cfg,
		phase:       domain.PhaseIdle,
	}
}

// Phase reports the current answering phase.
func (e *QAEngine) Phase() domain.AnswerPhase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *QAEngine) setPhase(p domain.AnswerPhase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
	logger.Debug("Answer phase: %s", p)
}

// Answer runs the full retrieval and generation pipeline and returns the
// complete answer.
func (e *QAEngine) Answer(ctx context.Context, q domain.Query) (*domain.Answer, error) {
	if !e.controller.TryBegin(domain.OperationAnswering) {
		return nil, domain.ErrBusy
	}
	defer e.controller.End()
	defer e.setPhase(domain.PhaseIdle)

	prompt, sources, grounded, err := e.prepare(ctx, q)
	if err != nil {
		e.setPhase(domain.PhaseFailed)
		return nil, err
	}

	e.setPhase(domain.PhaseGenerating)
	text, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		e.setPhase(domain.PhaseFailed)
		return nil, domain.NewError(domain.KindLLM, "generating answer", err)
	}

	e.setPhase(domain.PhaseCompleted)
	return &domain.Answer{
		Text:     text,
		Sources:  sources,
		Status:   domain.AnswerCompleted,
		Grounded: grounded,
	}, nil
}

// AnswerStream runs the same pipeline but delivers the answer as a stream
// of text increments. The result channel carries exactly one element once
// the delta channel is closed; a cancelled stream still yields a
// well-formed answer holding the text produced so far.
func (e *QAEngine) AnswerStream(ctx context.Context, q domain.Query) (<-chan string, <-chan driving.AnswerStreamResult) {
	deltas := make(chan string)
	results := make(chan driving.AnswerStreamResult, 1)

	go func() {
		defer close(deltas)
		defer close(results)

		if !e.controller.TryBegin(domain.OperationAnswering) {
			results <- driving.AnswerStreamResult{Err: domain.ErrBusy}
			return
		}
		defer e.controller.End()
		defer e.setPhase(domain.PhaseIdle)

		prompt, sources, grounded, err := e.prepare(ctx, q)
		if err != nil {
			e.setPhase(domain.PhaseFailed)
			results <- driving.AnswerStreamResult{Err: err}
			return
		}

		e.setPhase(domain.PhaseGenerating)
		// The derived context lets us release the generator when the
		// loop exits early; the caller's context may never be cancelled.
		genCtx, cancelGen := context.WithCancel(ctx)
		defer cancelGen()
		tokens, errs := e.llm.GenerateStream(genCtx, prompt, driven.GenerateOptions{})

		var builder strings.Builder
		cancelled := false
	stream:
		for tokens != nil || errs != nil {
			// Cancellation checkpoint: between increments.
			if e.controller.CancelRequested() {
				cancelled = true
				break stream
			}
			select {
			case tok, ok := <-tokens:
				if !ok {
					tokens = nil
					continue
				}
				builder.WriteString(tok)
				select {
				case deltas <- tok:
				case <-ctx.Done():
					cancelled = true
					break stream
				}
			case streamErr, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				if streamErr != nil {
					cancelGen()
					go drainStream(tokens, errs)
					e.setPhase(domain.PhaseFailed)
					results <- driving.AnswerStreamResult{Err: domain.NewError(domain.KindLLM, "streaming answer", streamErr)}
					return
				}
			case <-ctx.Done():
				cancelled = true
				break stream
			}
		}

		answer := &domain.Answer{
			Text:     builder.String(),
			Sources:  sources,
			Status:   domain.AnswerCompleted,
			Grounded: grounded,
		}
		if cancelled {
			cancelGen()
			go drainStream(tokens, errs)
			answer.Status = domain.AnswerCancelled
			e.setPhase(domain.PhaseCancelled)
		} else {
			e.setPhase(domain.PhaseCompleted)
		}
		results <- driving.AnswerStreamResult{Answer: answer}
	}()

	return deltas, results
}

// Retrieve embeds text and returns the closest chunks without generation.
func (e *QAEngine) Retrieve(ctx context.Context, text string, topK int) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		topK = e.cfg.MaxSearchResults
	}
	vector, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, domain.NewError(domain.KindEmbedding, "embedding query", err)
	}
	hits, err := e.vectorStore.Query(ctx, vector, topK)
	if err != nil {
		return nil, domain.NewError(domain.KindVectorStore, "querying chunks", err)
	}
	return rankHits(hits), nil
}

// prepare runs the shared embed-and-retrieve stage and builds the prompt.
// It returns the prompt, the cited source paths in first-appearance order
// and whether the prompt is grounded in retrieved context.
func (e *QAEngine) prepare(ctx context.Context, q domain.Query) (string, []string, bool, error) {
	e.setPhase(domain.PhaseEmbedding)
	vector, err := e.embedder.Embed(ctx, q.Text)
	if err != nil {
		return "", nil, false, domain.NewError(domain.KindEmbedding, "embedding query", err)
	}

	if e.controller.CancelRequested() {
		return "", nil, false, domain.ErrCancelled
	}

	e.setPhase(domain.PhaseRetrieving)
	count, err := e.vectorStore.Count(ctx)
	if err != nil {
		return "", nil, false, domain.NewError(domain.KindVectorStore, "counting chunks", err)
	}
	if count == 0 {
		if !e.cfg.AnswerWithoutContext {
			return "", nil, false, domain.ErrNoContext
		}
		logger.Debug("Empty index, answering without context")
		return e.buildDirectPrompt(q), nil, false, nil
	}

	topK := q.TopK
	if topK <= 0 {
		topK = e.cfg.MaxSearchResults
	}
	hits, err := e.vectorStore.Query(ctx, vector, topK)
	if err != nil {
		return "", nil, false, domain.NewError(domain.KindVectorStore, "querying chunks", err)
	}
	scored := rankHits(hits)

	if e.controller.CancelRequested() {
		return "", nil, false, domain.ErrCancelled
	}

	prompt, sources := e.buildGroundedPrompt(q, scored)
	return prompt, sources, true, nil
}

// buildGroundedPrompt assembles the final prompt: grounding directive,
// attributed context capped at the configured character budget, recent
// conversation history and the question.
func (e *QAEngine) buildGroundedPrompt(q domain.Query, scored []domain.ScoredChunk) (string, []string) {
	var b strings.Builder
	b.WriteString("You are an assistant that answers questions using only the provided context.\n")
	b.WriteString("If the context does not contain the answer, say so instead of guessing.\n")
	b.WriteString("Cite the source document names you used.\n")
	e.writeLanguageDirective(&b, q)

	b.WriteString("\nContext:\n")
	var sources []string
	seen := make(map[string]bool)
	budget := e.cfg.MaxContextChars
	used := 0
	for _, sc := range scored {
		block := fmt.Sprintf("[source: %s]\n%s\n\n", sc.Chunk.DocumentPath, sc.Chunk.Content)
		if used+len(block) > budget && used > 0 {
			break
		}
		b.WriteString(block)
		used += len(block)
		if !seen[sc.Chunk.DocumentPath] {
			seen[sc.Chunk.DocumentPath] = true
			sources = append(sources, sc.Chunk.DocumentPath)
		}
	}

	e.writeHistory(&b, q)
	fmt.Fprintf(&b, "Question: %s\nAnswer:", q.Text)
	return b.String(), sources
}

// buildDirectPrompt assembles a prompt for an empty index: no grounding
// context and no citation instruction.
func (e *QAEngine) buildDirectPrompt(q domain.Query) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant.\n")
	e.writeLanguageDirective(&b, q)
	e.writeHistory(&b, q)
	fmt.Fprintf(&b, "Question: %s\nAnswer:", q.Text)
	return b.String()
}

func (e *QAEngine) writeLanguageDirective(b *strings.Builder, q domain.Query) {
	lang := q.TargetLanguage
	if lang == "" && e.cfg.ForceTargetLanguageResponse {
		lang = e.cfg.TargetLanguage
	}
	if lang != "" {
		fmt.Fprintf(b, "Respond in %s regardless of the language of the context.\n", lang)
	}
}

// writeHistory appends the most recent conversation turns, bounded by the
// configured window.
func (e *QAEngine) writeHistory(b *strings.Builder, q domain.Query) {
	history := q.History
	if max := e.cfg.MaxHistoryTurns; len(history) > max {
		history = history[len(history)-max:]
	}
	if len(history) == 0 {
		return
	}
	b.WriteString("\nConversation so far:\n")
	for _, turn := range history {
		fmt.Fprintf(b, "%s: %s\n", turn.Role, turn.Content)
	}
	b.WriteString("\n")
}

// drainStream consumes an abandoned generation stream until both channels
// close, so the producer is not left blocked on an unbuffered send.
func drainStream(tokens <-chan string, errs <-chan error) {
	for tokens != nil || errs != nil {
		select {
		case _, ok := <-tokens:
			if !ok {
				tokens = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		}
	}
}

// rankHits orders hits by score descending, breaking ties by chunk id
// ascending so equal-score results are deterministic.
func rankHits(hits []driven.VectorHit) []domain.ScoredChunk {
	scored := make([]domain.ScoredChunk, len(hits))
	for i, h := range hits {
		scored[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{
				ID:           h.ID,
				DocumentPath: h.DocumentPath,
				Position:     h.Position,
				Content:      h.Content,
			},
			Score: h.Score,
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})
	return scored
}
