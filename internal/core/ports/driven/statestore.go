package driven

import (
	"context"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

// IndexStateStore persists one IndexEntry per document path. It is the
// source of truth for change detection and must round-trip losslessly
// across process restarts.
type IndexStateStore interface {
	// Get retrieves the entry for a path. Returns domain.ErrNotFound when
	// the path is not indexed.
	Get(ctx context.Context, path string) (*domain.IndexEntry, error)

	// Put stores or replaces the entry for its path.
	Put(ctx context.Context, entry domain.IndexEntry) error

	// Delete removes the entry for a path. Deleting a missing path is not
	// an error.
	Delete(ctx context.Context, path string) error

	// List returns all entries, ordered by path.
	List(ctx context.Context) ([]domain.IndexEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
