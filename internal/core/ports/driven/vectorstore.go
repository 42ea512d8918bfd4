package driven

import "context"

// VectorRecord is one chunk as persisted by the vector store.
type VectorRecord struct {
	// ID is the deterministic chunk id.
	ID string

	// Embedding is the chunk vector.
	Embedding []float32

	// Content is the chunk text, stored alongside the vector so retrieval
	// needs no second lookup.
	Content string

	// DocumentPath is the owning document path.
	DocumentPath string

	// Position is the chunk ordinal within its document.
	Position int
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// ID is the matched chunk id.
	ID string

	// Content is the chunk text.
	Content string

	// DocumentPath is the owning document path.
	DocumentPath string

	// Position is the chunk ordinal within its document.
	Position int

	// Score is the similarity to the query vector, higher is more similar.
	Score float64
}

// VectorStore is a persistent similarity index keyed by chunk id.
// It must support exact-id delete and return zero results when empty.
type VectorStore interface {
	// Upsert inserts or replaces the given records.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Query returns the topK records most similar to the vector, ordered
	// by descending score.
	Query(ctx context.Context, vector []float32, topK int) ([]VectorHit, error)

	// Delete removes the records with the given ids. Missing ids are not
	// an error.
	Delete(ctx context.Context, ids []string) error

	// Clear removes all records.
	Clear(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
