package driven

import "context"

// TextExtractor converts a file of a particular format into plain text.
// Extraction failures are recoverable per-file errors; the indexing run
// continues past them.
type TextExtractor interface {
	// Extensions returns the lower-cased file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Extract reads the file at path and returns its plain text content.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry resolves an extractor by file extension.
type ExtractorRegistry interface {
	// Lookup returns the extractor for the given extension, or false when
	// no extractor handles it.
	Lookup(ext string) (TextExtractor, bool)

	// Supported returns all registered extensions.
	Supported() []string
}
