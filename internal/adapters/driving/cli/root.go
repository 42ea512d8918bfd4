// Package cli implements the docchat command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/vellumlabs/docchat-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/vellumlabs/docchat-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/vellumlabs/docchat-cli/internal/adapters/driven/llm/ollama"
	"github.com/vellumlabs/docchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/vellumlabs/docchat-cli/internal/adapters/driven/vectorstore/qdrant"
	"github.com/vellumlabs/docchat-cli/internal/core/domain"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driven"
	"github.com/vellumlabs/docchat-cli/internal/core/ports/driving"
	"github.com/vellumlabs/docchat-cli/internal/core/services"
	"github.com/vellumlabs/docchat-cli/internal/extractors"
	"github.com/vellumlabs/docchat-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
)

// Wired services, populated by setupServices.
var (
	cfg           *domain.Config
	configStore   driven.ConfigStore
	embedder      driven.EmbeddingClient
	llmService    driven.LLMService
	controller    *services.Controller
	indexer       driving.Indexer
	answerService driving.AnswerService

	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your local documents",
	Long: `docchat indexes folders of local documents and answers questions
about them using a local Ollama model. Retrieval is semantic: document
chunks are embedded, stored in a vector store and matched against your
question, and answers cite the source files they came from.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docchat)")
}

// Execute runs the root command.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupConfig loads the configuration without wiring the service graph.
// Config commands use this so they never touch the index or the models.
func setupConfig() error {
	if cfg != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	loaded, err := store.Load()
	if err != nil {
		return err
	}
	configStore = store
	cfg = loaded
	return nil
}

// setupServices wires the full service graph from configuration. Commands
// that touch the index or the models call this first.
func setupServices(ctx context.Context) error {
	if indexer != nil {
		return nil
	}
	if err := setupConfig(); err != nil {
		return err
	}

	embedder = embeddingollama.NewClient(embeddingollama.Config{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.EmbeddingModel,
	})
	llmService = llmollama.NewService(llmollama.Config{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.LLMModel,
	})
	closers = append(closers, embedder.Close, llmService.Close)

	stateStore, vectorStore, err := buildStores(ctx)
	if err != nil {
		return err
	}

	controller = services.NewController()
	registry := extractors.DefaultRegistry()
	indexer = services.NewIndexingCoordinator(stateStore, vectorStore, embedder, registry, controller, cfg)
	answerService = services.NewQAEngine(vectorStore, embedder, llmService, controller, cfg)
	return nil
}

// buildStores opens the index state store and the configured vector store
// backend. Index state always lives in SQLite; the vectors move to Qdrant
// when configured.
func buildStores(ctx context.Context) (driven.IndexStateStore, driven.VectorStore, error) {
	store, err := sqlite.NewStore(cfg.VectorStorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	closers = append(closers, store.Close)

	switch cfg.VectorStoreKind {
	case domain.VectorStoreQdrant:
		qstore, err := qdrant.NewStore(ctx, qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
			Dimensions: embedder.Dimensions(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to qdrant: %w", err)
		}
		closers = append(closers, qstore.Close)
		return store.IndexStateStore(), qstore, nil
	default:
		return store.IndexStateStore(), store.VectorStore(), nil
	}
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}

// resetServices drops the wired graph so tests can rewire it.
func resetServices() {
	closeServices()
	cfg = nil
	configStore = nil
	embedder = nil
	llmService = nil
	controller = nil
	indexer = nil
	answerService = nil
}
