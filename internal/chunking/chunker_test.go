package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split("/doc.txt", "hash", ""))
	assert.Nil(t, s.Split("/doc.txt", "hash", "   \n\t  \n"))
}

func TestSplitSingleChunk(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))

	chunks := s.Split("/doc.txt", "hash", "hello world")

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Position)
	assert.Equal(t, "/doc.txt", chunks[0].DocumentPath)
	assert.NotEmpty(t, chunks[0].ID)
}

func TestSplitDeterminism(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)

	first := s.Split("/doc.txt", "hash", text)
	second := s.Split("/doc.txt", "hash", text)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestSplitIDsDependOnHash(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := "some document content that fits in one chunk"

	a := s.Split("/doc.txt", "hash-a", text)
	b := s.Split("/doc.txt", "hash-b", text)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.NotEqual(t, a[0].ID, b[0].ID)
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	s := New(WithChunkSize(40), WithOverlap(0))
	// The paragraph break sits inside the tolerance window before the
	// 40-character limit.
	text := "first paragraph ends here now okay\n\nsecond paragraph follows immediately after"

	chunks := s.Split("/doc.txt", "hash", text)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0].Content, "\n\n"),
		"first chunk should end at the paragraph break, got %q", chunks[0].Content)
}

func TestSplitHardCutWithoutBoundary(t *testing.T) {
	s := New(WithChunkSize(30), WithOverlap(5))
	text := strings.Repeat("a", 100)

	chunks := s.Split("/doc.txt", "hash", text)

	require.NotEmpty(t, chunks)
	assert.Len(t, []rune(chunks[0].Content), 30)
}

func TestSplitOverlap(t *testing.T) {
	s := New(WithChunkSize(30), WithOverlap(10))
	text := strings.Repeat("b", 100)

	chunks := s.Split("/doc.txt", "hash", text)

	require.GreaterOrEqual(t, len(chunks), 2)
	first := []rune(chunks[0].Content)
	second := []rune(chunks[1].Content)
	assert.Equal(t, string(first[len(first)-10:]), string(second[:10]))
}

func TestSplitMultibyteSafe(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(2))
	text := strings.Repeat("日本語のテキストです。", 5)

	chunks := s.Split("/doc.txt", "hash", text)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.Content))
		assert.LessOrEqual(t, len([]rune(c.Content)), 10)
	}
}

func TestSplitPositionsAreOrdinal(t *testing.T) {
	s := New(WithChunkSize(20), WithOverlap(0))
	text := strings.Repeat("word and more text ", 10)

	chunks := s.Split("/doc.txt", "hash", text)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
	}
}

func TestNewClampsExcessiveOverlap(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(200))

	assert.Equal(t, 25, s.overlap)
}
