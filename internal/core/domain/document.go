package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Chunk is a bounded slice of a document's text, the unit of embedding
// and retrieval.
type Chunk struct {
	// ID is the deterministic chunk identifier. See ChunkID.
	ID string

	// DocumentPath is the path of the owning document.
	DocumentPath string

	// Position is the ordinal position within the document, starting at 0.
	Position int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation, populated during indexing.
	Embedding []float32
}

// ChunkID derives the deterministic identifier for a chunk from its owning
// document path, ordinal position and the document content hash. Re-chunking
// an unchanged document therefore reproduces identical ids.
func ChunkID(documentPath string, position int, documentHash string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", documentPath, position, documentHash)))
	return hex.EncodeToString(sum[:])[:32]
}

// IndexEntry is one persisted index-state record: the source of truth for
// change detection, kept consistent with the vector store at whole-document
// granularity.
type IndexEntry struct {
	// Path is the document path (primary key).
	Path string

	// Hash is the content hash recorded at the last successful index.
	Hash string

	// ModTime is the modification time recorded at the last successful index.
	ModTime time.Time

	// ChunkIDs are the chunk ids committed to the vector store for this path.
	ChunkIDs []string
}
