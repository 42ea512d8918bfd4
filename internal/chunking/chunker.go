// Package chunking splits extracted text into overlapping, bounded segments
// with stable identifiers. Splitting is deterministic: identical input and
// parameters always yield identical boundaries and ids.
package chunking

import (
	"strings"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

// Default splitting parameters.
const (
	// DefaultChunkSize is the default target chunk size in characters.
	DefaultChunkSize = 1000

	// DefaultOverlap is the default overlap between chunks in characters.
	DefaultOverlap = 200
)

// toleranceDivisor bounds the backwards search for a break point to
// size/toleranceDivisor characters before the hard limit.
const toleranceDivisor = 5

// Splitter splits text into chunks. Sizes are measured in runes so that
// multi-byte scripts are never cut mid-character.
type Splitter struct {
	size    int
	overlap int
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a Splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		size:    DefaultChunkSize,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Overlap must leave room for forward progress.
	if s.overlap >= s.size {
		s.overlap = s.size / 4
	}
	return s
}

// Split produces the ordered chunks for a document. The document hash is
// folded into each chunk id so an unchanged document reproduces identical
// ids. Empty or whitespace-only text yields zero chunks.
func (s *Splitter) Split(documentPath, documentHash, text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)

	var chunks []domain.Chunk
	start := 0
	position := 0

	for start < total {
		end := start + s.size
		if end >= total {
			end = total
		} else {
			end = s.breakPoint(runes, start, end)
		}

		content := string(runes[start:end])
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, domain.Chunk{
				ID:           domain.ChunkID(documentPath, position, documentHash),
				DocumentPath: documentPath,
				Position:     position,
				Content:      content,
			})
			position++
		}

		if end >= total {
			break
		}

		next := end - s.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

// breakPoint searches backwards from the hard limit for the best boundary
// within the tolerance window: paragraph break first, then line break, then
// sentence end, then any whitespace. When no boundary is found the hard
// limit stands.
func (s *Splitter) breakPoint(runes []rune, start, limit int) int {
	window := s.size / toleranceDivisor
	if window < 1 {
		window = 1
	}
	floor := limit - window
	if floor <= start {
		floor = start + 1
	}

	if p := lastBoundary(runes, floor, limit, isParagraphBreak); p > 0 {
		return p
	}
	if p := lastBoundary(runes, floor, limit, isLineBreak); p > 0 {
		return p
	}
	if p := lastBoundary(runes, floor, limit, isSentenceEnd); p > 0 {
		return p
	}
	if p := lastBoundary(runes, floor, limit, isSpace); p > 0 {
		return p
	}
	return limit
}

// lastBoundary returns the end index just after the last rune in
// [floor, limit) satisfying match, or 0 when none does.
func lastBoundary(runes []rune, floor, limit int, match func([]rune, int) bool) int {
	for i := limit - 1; i >= floor; i-- {
		if match(runes, i) {
			return i + 1
		}
	}
	return 0
}

func isParagraphBreak(runes []rune, i int) bool {
	return runes[i] == '\n' && i > 0 && runes[i-1] == '\n'
}

func isLineBreak(runes []rune, i int) bool {
	return runes[i] == '\n'
}

func isSentenceEnd(runes []rune, i int) bool {
	switch runes[i] {
	case '.', '!', '?', '。', '！', '？':
		return true
	default:
		return false
	}
}

func isSpace(runes []rune, i int) bool {
	switch runes[i] {
	case ' ', '\t', '　':
		return true
	default:
		return false
	}
}
