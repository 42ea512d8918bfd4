// Package qdrant provides a vector store adapter backed by a Qdrant server
// over its REST API. It assumes cosine distance and creates the collection
// if missing.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultCollection = "docchat"
	DefaultTimeout    = 15 * time.Second
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant server base URL, e.g. http://localhost:6333.
	URL string

	// APIKey authenticates requests, empty for none.
	APIKey string

	// Collection is the collection name (default: docchat).
	Collection string

	// Dimensions is the embedding vector size the collection is created
	// with.
	Dimensions int

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a REST client to Qdrant.
type Store struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string
	dimensions int
}

// NewStore creates a new Qdrant store and ensures the collection exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureCollection creates the collection if missing. Qdrant returns OK
// when it already exists with the same schema.
func (s *Store) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimensions,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
}

// pointID derives the Qdrant point id from the chunk id. Qdrant only
// accepts UUIDs or unsigned integers as ids, so the chunk id is mapped
// through a deterministic name-based UUID and kept in the payload.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

// Upsert inserts or replaces the given records.
func (s *Store) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, len(records))
	for i, record := range records {
		points[i] = map[string]any{
			"id":     pointID(record.ID),
			"vector": record.Embedding,
			"payload": map[string]any{
				"chunk_id":      record.ID,
				"document_path": record.DocumentPath,
				"position":      record.Position,
				"content":       record.Content,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPut,
		fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body, nil)
}

// Query returns the topK records most similar to the vector.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]driven.VectorHit, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hit := driven.VectorHit{Score: r.Score}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			hit.ID = v
		}
		if v, ok := r.Payload["document_path"].(string); ok {
			hit.DocumentPath = v
		}
		if v, ok := r.Payload["position"].(float64); ok {
			hit.Position = int(v)
		}
		if v, ok := r.Payload["content"].(string); ok {
			hit.Content = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Delete removes the records with the given chunk ids.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	points := make([]string, len(ids))
	for i, id := range ids {
		points[i] = pointID(id)
	}
	body := map[string]any{"points": points}
	return s.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
}

// Clear drops and recreates the collection.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.do(ctx, http.MethodDelete,
		fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil, nil); err != nil {
		return err
	}
	return s.ensureCollection(ctx)
}

// Count returns the exact number of stored points.
func (s *Store) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost,
		fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection),
		map[string]any{"exact": true}, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s failed (status %d): %s", method, url, resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
