package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [folders...]",
	Short: "Index folders of documents",
	Long: `Scans the given folders (or the configured ones when omitted),
detects added, changed and removed files, and brings the vector index up
to date. Unchanged files are skipped.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}

	folders := args
	if len(folders) == 0 {
		folders = cfg.SelectedFolders
	}
	if len(folders) == 0 {
		return fmt.Errorf("no folders given and none configured; run 'docchat config set selected_folders <path>' or pass folders")
	}

	// Drain progress events while the run is in flight.
	go func() {
		for event := range controller.Events() {
			marker := progressMarker(event.Outcome)
			cmd.Printf("[%d/%d] %s %s\n", event.Current, event.Total, marker, event.Path)
		}
	}()

	summary, err := indexer.Reindex(cmd.Context(), folders)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("Indexed:   %d\n", summary.Indexed)
	cmd.Printf("Updated:   %d\n", summary.Updated)
	cmd.Printf("Unchanged: %d\n", summary.SkippedUnchanged)
	cmd.Printf("Filtered:  %d\n", summary.SkippedFiltered)
	cmd.Printf("Deleted:   %d\n", summary.Deleted)
	if summary.Errored > 0 {
		cmd.Printf("Errors:    %d\n", summary.Errored)
		for _, fileErr := range summary.Errors {
			cmd.Printf("  %s: %v\n", fileErr.Path, fileErr.Err)
		}
	}
	if summary.Cancelled {
		cmd.Println("Run was cancelled; remaining files were left untouched.")
	}
	cmd.Printf("Elapsed:   %s\n", summary.Elapsed.Round(10*time.Millisecond))
	return nil
}

func progressMarker(outcome domain.FileOutcome) string {
	switch outcome {
	case domain.OutcomeIndexed:
		return "+"
	case domain.OutcomeUpdated:
		return "~"
	case domain.OutcomeSkippedUnchanged:
		return "="
	case domain.OutcomeErrored:
		return "!"
	default:
		return " "
	}
}
