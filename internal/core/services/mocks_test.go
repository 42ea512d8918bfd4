package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
)

var (
	_ driven.EmbeddingClient   = (*mockEmbedder)(nil)
	_ driven.LLMService        = (*mockLLM)(nil)
	_ driven.ExtractorRegistry = (*testRegistry)(nil)
)

// mockEmbedder produces deterministic vectors derived from the text, so
// identical chunks always embed identically.
type mockEmbedder struct {
	mu       sync.Mutex
	calls    int
	embedErr error
	pingErr  error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(sum[i]) / 255.0
	}
	return vec, nil
}

func (m *mockEmbedder) Dimensions() int { return 8 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error { return nil }

func (m *mockEmbedder) embedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLM returns a canned completion and records the prompt it was given.
type mockLLM struct {
	mu          sync.Mutex
	response    string
	tokens      []string
	generateErr error
	lastPrompt  string

	// emitted is closed after the first token is delivered, letting tests
	// synchronise mid-stream cancellation.
	emitted  chan struct{}
	emitGate chan struct{}
	emitOnce sync.Once

	// blocking switches to an unbuffered token channel so each send parks
	// until a reader or context cancellation; streamDone is closed when the
	// producer goroutine exits.
	blocking   bool
	streamDone chan struct{}
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.mu.Unlock()
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLM) GenerateStream(ctx context.Context, prompt string, _ driven.GenerateOptions) (<-chan string, <-chan error) {
	m.mu.Lock()
	m.lastPrompt = prompt
	m.mu.Unlock()

	size := len(m.tokens)
	if m.blocking {
		size = 0
	}
	tokens := make(chan string, size)
	errs := make(chan error, 1)
	go func() {
		if m.streamDone != nil {
			defer close(m.streamDone)
		}
		defer close(tokens)
		defer close(errs)
		if m.generateErr != nil {
			errs <- m.generateErr
			return
		}
		for i, tok := range m.tokens {
			select {
			case tokens <- tok:
			case <-ctx.Done():
				return
			}
			if i == 0 && m.emitted != nil {
				m.emitOnce.Do(func() { close(m.emitted) })
			}
			if m.emitGate != nil {
				select {
				case <-m.emitGate:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return tokens, errs
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) prompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

// plainExtractor reads files verbatim, with configurable per-path failure.
type plainExtractor struct {
	failPaths map[string]bool
}

func (e *plainExtractor) Extensions() []string { return []string{".txt", ".md"} }

func (e *plainExtractor) Extract(_ context.Context, path string) (string, error) {
	if e.failPaths[path] {
		return "", errors.New("extraction broke")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// testRegistry serves the plain extractor for its extensions.
type testRegistry struct {
	extractor *plainExtractor
}

func newTestRegistry() *testRegistry {
	return &testRegistry{extractor: &plainExtractor{failPaths: map[string]bool{}}}
}

func (r *testRegistry) Lookup(ext string) (driven.TextExtractor, bool) {
	for _, e := range r.extractor.Extensions() {
		if e == strings.ToLower(ext) {
			return r.extractor, true
		}
	}
	return nil, false
}

func (r *testRegistry) Supported() []string { return r.extractor.Extensions() }
