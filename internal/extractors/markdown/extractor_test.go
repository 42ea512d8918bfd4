package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensions(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".md", ".markdown"}, e.Extensions())
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading markers removed",
			input:    "# Title\n\nSome body text.",
			expected: "Title\n\nSome body text.",
		},
		{
			name:     "links keep their text",
			input:    "See [the guide](https://example.com/guide) for details.",
			expected: "See the guide for details.",
		},
		{
			name:     "images dropped entirely",
			input:    "Before ![diagram](img.png) after.",
			expected: "Before  after.",
		},
		{
			name:     "code blocks dropped",
			input:    "Intro.\n\n```go\nfunc main() {}\n```\n\nOutro.",
			expected: "Intro.\n\nOutro.",
		},
		{
			name:     "inline code keeps its text",
			input:    "Run `docchat index` to start.",
			expected: "Run docchat index to start.",
		},
		{
			name:     "emphasis markers removed",
			input:    "This is **bold** and this is _subtle_.",
			expected: "This is bold and this is subtle.",
		},
		{
			name:     "blank runs collapsed",
			input:    "One.\n\n\n\n\nTwo.",
			expected: "One.\n\nTwo.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}

func TestExtractReadsAndStrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Heading\r\n\r\nBody [link](u).\n"), 0o644))

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nBody link.", text)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}
