package mcp

import (
	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against the indexed corpus.
	Answer driving.AnswerService

	// Indexer drives reindexing of the configured folders.
	Indexer driving.Indexer

	// Config supplies the folders the reindex tool operates on.
	Config *domain.Config
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Indexer == nil {
		return ErrMissingIndexer
	}
	return nil
}
