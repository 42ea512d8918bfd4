package domain

import (
	"fmt"
	"strings"
)

// VectorStoreKind selects the vector store backend.
type VectorStoreKind string

// Available vector store backends.
const (
	// VectorStoreSQLite is the embedded SQLite store.
	VectorStoreSQLite VectorStoreKind = "sqlite"

	// VectorStoreQdrant is a Qdrant server reached over HTTP.
	VectorStoreQdrant VectorStoreKind = "qdrant"
)

// IsValid returns true if the kind is recognised.
func (k VectorStoreKind) IsValid() bool {
	return k == VectorStoreSQLite || k == VectorStoreQdrant
}

// String returns the string representation.
func (k VectorStoreKind) String() string {
	return string(k)
}

// Default configuration values.
const (
	DefaultEmbeddingModel   = "nomic-embed-text"
	DefaultLLMModel         = "llama3.1:8b"
	DefaultOllamaBaseURL    = "http://localhost:11434"
	DefaultMaxSearchResults = 5
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 200
	DefaultMaxHistoryTurns  = 5
	DefaultMaxContextChars  = 4000
	DefaultMaxFileSize      = 10 << 20 // 10 MiB
)

// DefaultExtensions is the default supported extension allow-list.
var DefaultExtensions = []string{".txt", ".text", ".md", ".markdown"}

// Config is the fully-typed application configuration. Optional fields have
// explicit defaults applied by ApplyDefaults; Validate runs once at load time.
type Config struct {
	// EmbeddingModel is the Ollama embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// LLMModel is the Ollama generation model name.
	LLMModel string `toml:"llm_model"`

	// OllamaBaseURL is the Ollama API base URL.
	OllamaBaseURL string `toml:"ollama_base_url"`

	// VectorStoreKind selects the vector store backend.
	VectorStoreKind VectorStoreKind `toml:"vector_store_kind"`

	// VectorStorePath is the data directory for the SQLite backend.
	VectorStorePath string `toml:"vector_store_path"`

	// QdrantURL is the Qdrant server URL for the qdrant backend.
	QdrantURL string `toml:"qdrant_url"`

	// QdrantAPIKey authenticates against Qdrant, empty for none.
	QdrantAPIKey string `toml:"qdrant_api_key"`

	// QdrantCollection is the Qdrant collection name.
	QdrantCollection string `toml:"qdrant_collection"`

	// SelectedFolders is the ordered list of folders to index.
	SelectedFolders []string `toml:"selected_folders"`

	// AllowedExtensions is the extension allow-list for candidate files.
	AllowedExtensions []string `toml:"allowed_extensions"`

	// MaxFileSizeBytes filters out files larger than this.
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`

	// ChunkSize is the target chunk size in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between adjacent chunks in characters.
	ChunkOverlap int `toml:"chunk_overlap"`

	// MaxSearchResults is the retrieval top-k.
	MaxSearchResults int `toml:"max_search_results"`

	// EnableStreaming toggles streamed generation. The pointer keeps an
	// explicit `enable_streaming = false` distinguishable from a missing
	// key; ApplyDefaults fills nil with the default (enabled).
	EnableStreaming *bool `toml:"enable_streaming"`

	// ForceTargetLanguageResponse adds a target-language directive to the
	// prompt.
	ForceTargetLanguageResponse bool `toml:"force_target_language_response"`

	// TargetLanguage is the language used when
	// ForceTargetLanguageResponse is set.
	TargetLanguage string `toml:"target_language"`

	// MaxHistoryTurns bounds the conversation history included in prompts.
	MaxHistoryTurns int `toml:"max_history_turns"`

	// MaxContextChars caps the retrieved context included in prompts.
	MaxContextChars int `toml:"max_context_chars"`

	// AnswerWithoutContext permits a non-grounded answer when the vector
	// store is empty. When false the engine signals insufficient knowledge
	// instead.
	AnswerWithoutContext bool `toml:"answer_without_context"`
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued optional fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = DefaultEmbeddingModel
	}
	if c.LLMModel == "" {
		c.LLMModel = DefaultLLMModel
	}
	if c.OllamaBaseURL == "" {
		c.OllamaBaseURL = DefaultOllamaBaseURL
	}
	if c.VectorStoreKind == "" {
		c.VectorStoreKind = VectorStoreSQLite
	}
	if c.QdrantCollection == "" {
		c.QdrantCollection = "docchat"
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = append([]string(nil), DefaultExtensions...)
	}
	if c.MaxFileSizeBytes == 0 {
		c.MaxFileSizeBytes = DefaultMaxFileSize
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.MaxSearchResults == 0 {
		c.MaxSearchResults = DefaultMaxSearchResults
	}
	if c.EnableStreaming == nil {
		enabled := true
		c.EnableStreaming = &enabled
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = "Japanese"
	}
	if c.MaxHistoryTurns == 0 {
		c.MaxHistoryTurns = DefaultMaxHistoryTurns
	}
	if c.MaxContextChars == 0 {
		c.MaxContextChars = DefaultMaxContextChars
	}
}

// Validate checks the configuration once at load time. It returns a typed
// configuration error for the first violation found.
func (c *Config) Validate() error {
	if !c.VectorStoreKind.IsValid() {
		return NewError(KindConfig,
			fmt.Sprintf("unknown vector_store_kind %q", c.VectorStoreKind), nil)
	}
	if c.VectorStoreKind == VectorStoreQdrant && c.QdrantURL == "" {
		return NewError(KindConfig, "qdrant_url is required for the qdrant backend", nil)
	}
	if c.ChunkSize <= 0 {
		return NewError(KindConfig, "chunk_size must be positive", nil)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return NewError(KindConfig, "chunk_overlap must be non-negative and smaller than chunk_size", nil)
	}
	if c.MaxSearchResults <= 0 {
		return NewError(KindConfig, "max_search_results must be positive", nil)
	}
	if c.MaxFileSizeBytes <= 0 {
		return NewError(KindConfig, "max_file_size_bytes must be positive", nil)
	}
	for _, ext := range c.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return NewError(KindConfig,
				fmt.Sprintf("allowed extension %q must start with a dot", ext), nil)
		}
	}
	return nil
}

// StreamingEnabled reports whether streamed generation is on.
func (c *Config) StreamingEnabled() bool {
	return c.EnableStreaming == nil || *c.EnableStreaming
}

// ExtensionAllowed reports whether the (lower-cased) extension passes the
// allow-list.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}
