package mcp

import (
	"context"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
)

var (
	_ driving.AnswerService = (*mockAnswerService)(nil)
	_ driving.Indexer       = (*mockIndexer)(nil)
)

// mockAnswerService returns canned answers and records inputs.
type mockAnswerService struct {
	answer    *domain.Answer
	retrieved []domain.ScoredChunk
	err       error

	lastQuery    domain.Query
	lastRetrieve string
	lastTopK     int
}

func (m *mockAnswerService) Answer(_ context.Context, q domain.Query) (*domain.Answer, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockAnswerService) AnswerStream(_ context.Context, q domain.Query) (<-chan string, <-chan driving.AnswerStreamResult) {
	m.lastQuery = q
	deltas := make(chan string)
	results := make(chan driving.AnswerStreamResult, 1)
	close(deltas)
	results <- driving.AnswerStreamResult{Answer: m.answer, Err: m.err}
	close(results)
	return deltas, results
}

func (m *mockAnswerService) Retrieve(_ context.Context, text string, topK int) ([]domain.ScoredChunk, error) {
	m.lastRetrieve = text
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.retrieved, nil
}

func (m *mockAnswerService) Phase() domain.AnswerPhase { return domain.PhaseIdle }

// mockIndexer returns a canned summary and records the folders.
type mockIndexer struct {
	summary *domain.IndexingSummary
	stats   *driving.IndexStats
	err     error

	lastFolders []string
}

func (m *mockIndexer) Reindex(_ context.Context, folders []string) (*domain.IndexingSummary, error) {
	m.lastFolders = folders
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockIndexer) Clear(context.Context) error { return m.err }

func (m *mockIndexer) Stats(context.Context) (*driving.IndexStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}
