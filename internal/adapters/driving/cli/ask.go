package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

var (
	askTopK     int
	askLanguage string
	askStream   bool
	askNoStream bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Answers a question using the indexed documents. The most similar
chunks are retrieved, handed to the model as context, and the answer cites
the source files it was grounded in.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from configuration)")
	askCmd.Flags().StringVar(&askLanguage, "lang", "", "language to answer in")
	askCmd.Flags().BoolVar(&askStream, "stream", false, "stream the answer as it is generated")
	askCmd.Flags().BoolVar(&askNoStream, "no-stream", false, "wait for the complete answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := setupServices(cmd.Context()); err != nil {
		return err
	}

	query := domain.Query{
		Text:           args[0],
		TopK:           askTopK,
		TargetLanguage: askLanguage,
	}

	streaming := cfg.StreamingEnabled()
	if askStream {
		streaming = true
	}
	if askNoStream {
		streaming = false
	}

	if streaming {
		return askStreamed(cmd, query)
	}
	return askBlocking(cmd, query)
}

func askBlocking(cmd *cobra.Command, query domain.Query) error {
	answer, err := answerService.Answer(cmd.Context(), query)
	if err != nil {
		return describeAskError(err)
	}

	cmd.Println(answer.Text)
	printSources(cmd, answer)
	return nil
}

func askStreamed(cmd *cobra.Command, query domain.Query) error {
	deltas, results := answerService.AnswerStream(cmd.Context(), query)
	for delta := range deltas {
		cmd.Print(delta)
	}
	result := <-results
	if result.Err != nil {
		return describeAskError(result.Err)
	}

	cmd.Println()
	if result.Answer.Status == domain.AnswerCancelled {
		cmd.Println("[generation cancelled]")
	}
	printSources(cmd, result.Answer)
	return nil
}

func printSources(cmd *cobra.Command, answer *domain.Answer) {
	if !answer.Grounded {
		cmd.Println("\n(answered without document context; the index is empty)")
		return
	}
	if len(answer.Sources) > 0 {
		cmd.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
}

func describeAskError(err error) error {
	switch {
	case errors.Is(err, domain.ErrBusy):
		return errors.New("another operation is running; try again when it finishes")
	case errors.Is(err, domain.ErrNoContext):
		return errors.New("the index is empty; run 'docchat index' first")
	default:
		return fmt.Errorf("answering failed: %w", err)
	}
}
