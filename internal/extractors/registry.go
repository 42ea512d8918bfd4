// Package extractors provides the extension-keyed registry of text
// extractors used by the indexing coordinator.
package extractors

import (
	"sort"
	"strings"

	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
	"github.com/vellumlabs/docchat-cli/internal/extractors/docx"
	"github.com/vellumlabs/docchat-cli/internal/extractors/html"
	"github.com/vellumlabs/docchat-cli/internal/extractors/markdown"
	"github.com/vellumlabs/docchat-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry resolves extractors by lower-cased file extension. Later
// registrations win, letting callers override a built-in.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{byExt: make(map[string]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// DefaultRegistry creates a registry with the built-in extractors. HTML
// and DOCX are registered but only indexed when the configured extension
// allow-list includes them.
func DefaultRegistry() *Registry {
	return NewRegistry(plaintext.New(), markdown.New(), html.New(), docx.New())
}

// Register maps all of the extractor's extensions to it.
func (r *Registry) Register(e driven.TextExtractor) {
	for _, ext := range e.Extensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// Lookup returns the extractor for ext, or false when none handles it.
func (r *Registry) Lookup(ext string) (driven.TextExtractor, bool) {
	e, ok := r.byExt[strings.ToLower(ext)]
	return e, ok
}

// Supported returns all registered extensions, sorted.
func (r *Registry) Supported() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
