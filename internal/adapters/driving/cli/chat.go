package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/vellumlabs/docchat-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal chat interface.

Answers stream in as they are generated and cite the source documents
they came from. Conversation history carries across questions.

Controls:
  Enter     - Ask the typed question
  Esc       - Cancel the in-flight answer
  Up/Down   - Scroll the transcript
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery so terminal state problems come with a stack trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := setupServices(cmd.Context()); err != nil {
		return err
	}

	return tui.Run(answerService, controller, cfg)
}
