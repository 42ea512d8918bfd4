package driven

import "context"

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// LLMService invokes a locally hosted language model.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
type LLMService interface {
	// Generate produces a full text completion from a prompt, blocking
	// until the response arrives or the context deadline elapses.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces text increments as they arrive. The token
	// channel is closed when generation finishes; the error channel
	// delivers at most one error. The sequence is finite, single-pass and
	// not restartable.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, <-chan error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
