package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, domain.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, domain.VectorStoreSQLite, cfg.VectorStoreKind)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.SelectedFolders = []string{"/corpus/docs"}
	cfg.LLMModel = "llama3.2:3b"
	cfg.MaxSearchResults = 7
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"/corpus/docs"}, loaded.SelectedFolders)
	assert.Equal(t, "llama3.2:3b", loaded.LLMModel)
	assert.Equal(t, 7, loaded.MaxSearchResults)
}

func TestLoadAppliesDefaultsForUnsetKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	// A sparse hand-written file only sets one key.
	require.NoError(t, os.WriteFile(store.Path(), []byte("llm_model = \"mistral\"\n"), 0o600))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.LLMModel)
	assert.Equal(t, domain.DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, domain.DefaultMaxContextChars, cfg.MaxContextChars)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(store.Path(), []byte("not valid {{ toml"), 0o600))

	_, err = store.Load()
	require.Error(t, err)
	assert.Equal(t, domain.KindConfig, domain.KindOf(err))
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.ChunkOverlap = cfg.ChunkSize * 2
	assert.Error(t, store.Save(cfg))
}

func TestDefaultPathUnderConfigDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
