package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vellumlabs/docchat-cli/internal/chunking"
	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
	"github.com/vellumlabs/docchat-cli/internal/logger"
)

// Ensure IndexingCoordinator implements the interface.
var _ driving.Indexer = (*IndexingCoordinator)(nil)

// IndexingCoordinator scans folders, detects changed, added and removed
// files, drives chunking and embedding, and keeps the vector store and
// index state consistent at whole-document granularity.
type IndexingCoordinator struct {
	stateStore  driven.IndexStateStore
	vectorStore driven.VectorStore
	embedder    driven.EmbeddingClient
	extractors  driven.ExtractorRegistry
	controller  driving.OperationController
	splitter    *chunking.Splitter
	cfg         *domain.Config
}

// NewIndexingCoordinator creates a new indexing coordinator.
func NewIndexingCoordinator(
	stateStore driven.IndexStateStore,
	vectorStore driven.VectorStore,
	embedder driven.EmbeddingClient,
	extractors driven.ExtractorRegistry,
	controller driving.OperationController,
	cfg *domain.Config,
) *IndexingCoordinator {
	return &IndexingCoordinator{
		stateStore:  stateStore,
		vectorStore: vectorStore,
		embedder:    embedder,
		extractors:  extractors,
		controller:  controller,
		splitter: chunking.New(
			chunking.WithChunkSize(cfg.ChunkSize),
			chunking.WithOverlap(cfg.ChunkOverlap),
		),
		cfg: cfg,
	}
}

// Reindex brings the vector store and index state up to date with the
// files under folders. Files are processed in enumeration order; progress
// events are emitted in that same order. Documents fully committed before
// a cancellation checkpoint remain committed.
//
//nolint:gocognit // Orchestration function with necessary sequential steps
func (c *IndexingCoordinator) Reindex(ctx context.Context, folders []string) (*domain.IndexingSummary, error) {
	if !c.controller.TryBegin(domain.OperationIndexing) {
		return nil, domain.ErrBusy
	}
	defer c.controller.End()

	started := time.Now()
	summary := &domain.IndexingSummary{}

	logger.Section("Indexing")
	logger.Info("Reindex started: %d folder(s)", len(folders))

	// The embedding service being unreachable is fatal for the whole run.
	if err := c.embedder.Ping(ctx); err != nil {
		return nil, domain.NewError(domain.KindEmbedding, "embedding service unreachable", err)
	}

	candidates := c.enumerate(folders, summary)
	logger.Info("Candidates: %d, filtered: %d", len(candidates), summary.SkippedFiltered)

	existing, err := c.loadIndexState(ctx)
	if err != nil {
		return nil, err
	}

	total := len(candidates)
	for i, path := range candidates {
		// Cancellation checkpoint: before starting each file.
		if c.controller.CancelRequested() {
			summary.Cancelled = true
			logger.Info("Reindex cancelled before file %d/%d", i+1, total)
			break
		}

		entry := existing[path]
		delete(existing, path)

		outcome, err := c.processFile(ctx, path, entry)
		if err != nil {
			if kind := domain.KindOf(err); kind == domain.KindEmbedding || kind == domain.KindVectorStore {
				// Backend failures abort the run with one top-level error.
				return nil, err
			}
			summary.Errored++
			summary.Errors = append(summary.Errors, domain.FileError{Path: path, Err: err})
			outcome = domain.OutcomeErrored
			logger.Warn("File failed: %s: %v", path, err)
		}

		switch outcome {
		case domain.OutcomeIndexed:
			summary.Indexed++
		case domain.OutcomeUpdated:
			summary.Updated++
		case domain.OutcomeSkippedUnchanged:
			summary.SkippedUnchanged++
		}

		c.controller.Publish(domain.ProgressEvent{
			Current: i + 1,
			Total:   total,
			Path:    path,
			Outcome: outcome,
		})
	}

	// Entries whose files vanished from disk: untouched when cancelled,
	// since the run stops enumerating further work.
	if !summary.Cancelled {
		if err := c.removeVanished(ctx, existing, summary); err != nil {
			return nil, err
		}
	}

	summary.Elapsed = time.Since(started)
	logger.Info("Reindex done: indexed=%d updated=%d unchanged=%d filtered=%d deleted=%d errored=%d cancelled=%t",
		summary.Indexed, summary.Updated, summary.SkippedUnchanged,
		summary.SkippedFiltered, summary.Deleted, summary.Errored, summary.Cancelled)

	return summary, nil
}

// Clear deletes all chunks and resets the index state to empty.
func (c *IndexingCoordinator) Clear(ctx context.Context) error {
	if !c.controller.TryBegin(domain.OperationIndexing) {
		return domain.ErrBusy
	}
	defer c.controller.End()

	if err := c.vectorStore.Clear(ctx); err != nil {
		return domain.NewError(domain.KindVectorStore, "clearing vector store", err)
	}
	if err := c.stateStore.Clear(ctx); err != nil {
		return domain.NewError(domain.KindVectorStore, "clearing index state", err)
	}
	logger.Info("Index cleared")
	return nil
}

// Stats returns document and chunk counts.
func (c *IndexingCoordinator) Stats(ctx context.Context) (*driving.IndexStats, error) {
	entries, err := c.stateStore.List(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindVectorStore, "listing index state", err)
	}
	chunks, err := c.vectorStore.Count(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindVectorStore, "counting chunks", err)
	}
	return &driving.IndexStats{Documents: len(entries), Chunks: chunks}, nil
}

// enumerate walks the folders in order and returns candidate files in
// deterministic enumeration order. Files failing the extension or size
// filter are counted, not erred; unreadable paths become per-file errors.
func (c *IndexingCoordinator) enumerate(folders []string, summary *domain.IndexingSummary) []string {
	var candidates []string

	for _, folder := range folders {
		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				summary.Errored++
				summary.Errors = append(summary.Errors, domain.FileError{Path: path, Err: err})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				// Hidden directories (VCS metadata etc.) are not corpus.
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return fs.SkipDir
				}
				return nil
			}

			ext := strings.ToLower(filepath.Ext(path))
			if !c.cfg.ExtensionAllowed(ext) {
				summary.SkippedFiltered++
				return nil
			}
			if _, ok := c.extractors.Lookup(ext); !ok {
				summary.SkippedFiltered++
				return nil
			}
			info, err := d.Info()
			if err != nil {
				summary.Errored++
				summary.Errors = append(summary.Errors, domain.FileError{Path: path, Err: err})
				return nil
			}
			if info.Size() > c.cfg.MaxFileSizeBytes {
				summary.SkippedFiltered++
				return nil
			}

			candidates = append(candidates, path)
			return nil
		})
		if err != nil {
			summary.Errored++
			summary.Errors = append(summary.Errors, domain.FileError{Path: folder, Err: err})
		}
	}

	return candidates
}

// loadIndexState loads all persisted entries into a path-keyed map.
func (c *IndexingCoordinator) loadIndexState(ctx context.Context) (map[string]*domain.IndexEntry, error) {
	entries, err := c.stateStore.List(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindVectorStore, "loading index state", err)
	}
	byPath := make(map[string]*domain.IndexEntry, len(entries))
	for i := range entries {
		byPath[entries[i].Path] = &entries[i]
	}
	return byPath, nil
}

// processFile applies change detection to one candidate file and commits it
// at document granularity. A new or changed document is fully embedded
// before any write, so a mid-file failure never leaves a partially-applied
// document in either store.
func (c *IndexingCoordinator) processFile(
	ctx context.Context, path string, entry *domain.IndexEntry,
) (domain.FileOutcome, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.OutcomeErrored, domain.NewError(domain.KindExtraction, "reading file", err)
	}
	hash := contentHash(raw)

	// Unchanged document: zero writes, preserving idempotence.
	if entry != nil && entry.Hash == hash {
		logger.Debug("Unchanged: %s", path)
		return domain.OutcomeSkippedUnchanged, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.OutcomeErrored, domain.NewError(domain.KindExtraction, "stat file", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := c.extractors.Lookup(ext)
	if !ok {
		return domain.OutcomeErrored, domain.NewError(domain.KindExtraction,
			fmt.Sprintf("no extractor for %s", ext), nil)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return domain.OutcomeErrored, domain.NewError(domain.KindExtraction, "extracting text", err)
	}

	chunks := c.splitter.Split(path, hash, text)
	records := make([]driven.VectorRecord, 0, len(chunks))
	chunkIDs := make([]string, 0, len(chunks))
	for i := range chunks {
		embedding, err := c.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			// No writes have happened for this file yet.
			return domain.OutcomeErrored, domain.NewError(domain.KindEmbedding, "embedding chunk", err)
		}
		records = append(records, driven.VectorRecord{
			ID:           chunks[i].ID,
			Embedding:    embedding,
			Content:      chunks[i].Content,
			DocumentPath: path,
			Position:     chunks[i].Position,
		})
		chunkIDs = append(chunkIDs, chunks[i].ID)
	}

	outcome := domain.OutcomeIndexed
	if entry != nil {
		outcome = domain.OutcomeUpdated
		// Delete-then-write: stale chunks go first, then the replacement.
		if err := c.vectorStore.Delete(ctx, entry.ChunkIDs); err != nil {
			return domain.OutcomeErrored, domain.NewError(domain.KindVectorStore, "deleting stale chunks", err)
		}
	}

	if err := c.vectorStore.Upsert(ctx, records); err != nil {
		c.rollback(ctx, path, chunkIDs)
		return domain.OutcomeErrored, domain.NewError(domain.KindVectorStore, "writing chunks", err)
	}

	newEntry := domain.IndexEntry{
		Path:     path,
		Hash:     hash,
		ModTime:  info.ModTime(),
		ChunkIDs: chunkIDs,
	}
	if err := c.stateStore.Put(ctx, newEntry); err != nil {
		c.rollback(ctx, path, chunkIDs)
		return domain.OutcomeErrored, domain.NewError(domain.KindVectorStore, "saving index state", err)
	}

	logger.Debug("%s: %s (%d chunks)", outcome, path, len(chunkIDs))
	return outcome, nil
}

// rollback removes any chunks written for a failed file so neither store
// references a partially-applied document. Best effort.
func (c *IndexingCoordinator) rollback(ctx context.Context, path string, chunkIDs []string) {
	if err := c.vectorStore.Delete(ctx, chunkIDs); err != nil {
		logger.Warn("Rollback failed for %s: %v", path, err)
	}
	if err := c.stateStore.Delete(ctx, path); err != nil {
		logger.Warn("Rollback of index state failed for %s: %v", path, err)
	}
}

// removeVanished deletes documents whose files no longer exist on disk.
func (c *IndexingCoordinator) removeVanished(
	ctx context.Context, remaining map[string]*domain.IndexEntry, summary *domain.IndexingSummary,
) error {
	for path, entry := range remaining {
		if c.controller.CancelRequested() {
			summary.Cancelled = true
			return nil
		}
		if err := c.vectorStore.Delete(ctx, entry.ChunkIDs); err != nil {
			return domain.NewError(domain.KindVectorStore, "deleting removed document", err)
		}
		if err := c.stateStore.Delete(ctx, path); err != nil {
			return domain.NewError(domain.KindVectorStore, "dropping index state entry", err)
		}
		summary.Deleted++
		logger.Debug("Deleted: %s (%d chunks)", path, len(entry.ChunkIDs))
	}
	return nil
}

// contentHash returns the hex SHA-256 of the raw file bytes.
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
