package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and service status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}

	stats, err := indexer.Stats(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Config:          %s\n", configStore.Path())
	cmd.Printf("Folders:         %s\n", orNone(strings.Join(cfg.SelectedFolders, ", ")))
	cmd.Printf("Vector store:    %s\n", cfg.VectorStoreKind)
	cmd.Printf("Documents:       %d\n", stats.Documents)
	cmd.Printf("Chunks:          %d\n", stats.Chunks)
	cmd.Printf("Embedding model: %s\n", embedder.ModelName())
	cmd.Printf("LLM model:       %s\n", llmService.ModelName())
	cmd.Printf("Operation:       %s\n", controller.State())

	if err := embedder.Ping(cmd.Context()); err != nil {
		cmd.Printf("Ollama:          unreachable (%v)\n", err)
	} else {
		cmd.Println("Ollama:          ok")
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
