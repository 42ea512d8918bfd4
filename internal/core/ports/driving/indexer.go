package driving

import (
	"context"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

// Indexer coordinates indexing of the configured corpus.
type Indexer interface {
	// Reindex scans the folders, applies change detection and brings the
	// vector store and index state up to date. It rejects with
	// domain.ErrBusy when another operation is in flight.
	Reindex(ctx context.Context, folders []string) (*domain.IndexingSummary, error)

	// Clear deletes all chunks and resets the index state to empty.
	Clear(ctx context.Context) error

	// Stats returns document and chunk counts for the status operation.
	Stats(ctx context.Context) (*IndexStats, error)
}

// IndexStats summarises the persisted index.
type IndexStats struct {
	// Documents is the number of indexed documents.
	Documents int

	// Chunks is the number of stored chunks.
	Chunks int
}
