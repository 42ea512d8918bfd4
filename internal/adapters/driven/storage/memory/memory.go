// Package memory provides in-memory implementations of the index state
// store and vector store. They back tests and ephemeral runs where no
// persistence is wanted.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
)

var (
	_ driven.IndexStateStore = (*IndexStateStore)(nil)
	_ driven.VectorStore     = (*VectorStore)(nil)
)

// IndexStateStore keeps index entries in a map.
type IndexStateStore struct {
	mu      sync.RWMutex
	entries map[string]domain.IndexEntry
}

// NewIndexStateStore creates an empty in-memory index state store.
func NewIndexStateStore() *IndexStateStore {
	return &IndexStateStore{entries: make(map[string]domain.IndexEntry)}
}

// Get returns the entry for path, or domain.ErrNotFound.
func (s *IndexStateStore) Get(_ context.Context, path string) (*domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Put stores or replaces the entry for its path.
func (s *IndexStateStore) Put(_ context.Context, entry domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Path] = entry
	return nil
}

// Delete removes the entry for path. Missing paths are not an error.
func (s *IndexStateStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
	return nil
}

// List returns all entries sorted by path.
func (s *IndexStateStore) List(_ context.Context) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.IndexEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Clear removes all entries.
func (s *IndexStateStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.IndexEntry)
	return nil
}

// VectorStore keeps records in a map and answers queries with exact
// brute-force cosine similarity.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]driven.VectorRecord
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{records: make(map[string]driven.VectorRecord)}
}

// Upsert inserts or replaces records by id.
func (s *VectorStore) Upsert(_ context.Context, records []driven.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.ID] = r
	}
	return nil
}

// Query returns up to topK hits ordered by cosine similarity descending,
// ties broken by id ascending.
func (s *VectorStore) Query(_ context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(s.records))
	for _, r := range s.records {
		hits = append(hits, driven.VectorHit{
			ID:           r.ID,
			Content:      r.Content,
			DocumentPath: r.DocumentPath,
			Position:     r.Position,
			Score:        Cosine(vector, r.Embedding),
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Delete removes records by id. Unknown ids are ignored.
func (s *VectorStore) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

// Clear removes all records.
func (s *VectorStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]driven.VectorRecord)
	return nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *VectorStore) Close() error { return nil }

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// or zero vectors score zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
