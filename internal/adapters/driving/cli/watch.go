package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vellumlabs/docchat-cli/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [folders...]",
	Short: "Watch folders and reindex on change",
	Long: `Runs an initial index of the folders, then watches them for file
changes and reindexes after each burst of changes. Stops on Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before reindexing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}

	folders := args
	if len(folders) == 0 {
		folders = cfg.SelectedFolders
	}
	if len(folders) == 0 {
		return fmt.Errorf("no folders given and none configured")
	}

	// Initial pass so the watch starts from a current index.
	summary, err := indexer.Reindex(cmd.Context(), folders)
	if err != nil {
		return fmt.Errorf("initial indexing failed: %w", err)
	}
	cmd.Printf("Initial index: %d indexed, %d updated, %d unchanged\n",
		summary.Indexed, summary.Updated, summary.SkippedUnchanged)

	w := watcher.New(indexer, folders, watcher.WithDebounce(watchDebounce))
	if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
