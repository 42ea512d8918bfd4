package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vellumlabs/docchat-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values stored in the TOML config file.

Use subcommands to show, read, or write individual settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save the config file.

Keys:
  embedding_model                 Ollama embedding model name
  llm_model                       Ollama generation model name
  ollama_base_url                 Ollama API base URL
  vector_store_kind               sqlite or qdrant
  qdrant_url                      Qdrant server URL
  qdrant_collection               Qdrant collection name
  selected_folders                comma-separated folder list
  allowed_extensions              comma-separated extension list (.txt,.md,...)
  max_file_size_bytes             candidate file size limit
  chunk_size                      chunk size in characters
  chunk_overlap                   chunk overlap in characters
  max_search_results              retrieval top-k
  enable_streaming                true or false
  force_target_language_response  true or false
  target_language                 language name for forced responses
  max_history_turns               conversation turns kept in prompts
  max_context_chars               retrieved context cap in characters
  answer_without_context          true or false`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE:  runConfigPath,
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Set the Qdrant API key",
	Long:  `Prompt for the Qdrant API key without echoing it and save the config file.`,
	RunE:  runConfigSetAPIKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetAPIKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := setupConfig(); err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  Embedding model: %s\n", cfg.EmbeddingModel)
	cmd.Printf("  LLM model: %s\n", cfg.LLMModel)
	cmd.Printf("  Ollama base URL: %s\n", cfg.OllamaBaseURL)
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Kind: %s\n", cfg.VectorStoreKind)
	if cfg.VectorStoreKind == domain.VectorStoreQdrant {
		cmd.Printf("  Qdrant URL: %s\n", cfg.QdrantURL)
		cmd.Printf("  Qdrant collection: %s\n", cfg.QdrantCollection)
		if cfg.QdrantAPIKey != "" {
			cmd.Printf("  Qdrant API key: %s\n", maskAPIKey(cfg.QdrantAPIKey))
		} else {
			cmd.Printf("  Qdrant API key: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Indexing]")
	cmd.Printf("  Folders: %s\n", orNone(strings.Join(cfg.SelectedFolders, ", ")))
	cmd.Printf("  Extensions: %s\n", strings.Join(cfg.AllowedExtensions, ", "))
	cmd.Printf("  Max file size: %d bytes\n", cfg.MaxFileSizeBytes)
	cmd.Printf("  Chunk size / overlap: %d / %d\n", cfg.ChunkSize, cfg.ChunkOverlap)
	cmd.Println()

	cmd.Println("[Answering]")
	cmd.Printf("  Top-k: %d\n", cfg.MaxSearchResults)
	cmd.Printf("  Streaming: %t\n", cfg.StreamingEnabled())
	cmd.Printf("  Force target language: %t", cfg.ForceTargetLanguageResponse)
	if cfg.ForceTargetLanguageResponse {
		cmd.Printf(" (%s)", cfg.TargetLanguage)
	}
	cmd.Println()
	cmd.Printf("  History turns: %d\n", cfg.MaxHistoryTurns)
	cmd.Printf("  Context cap: %d chars\n", cfg.MaxContextChars)
	cmd.Printf("  Answer without context: %t\n", cfg.AnswerWithoutContext)

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := setupConfig(); err != nil {
		return err
	}

	value, err := configValue(cfg, args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := setupConfig(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := applyConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := setupConfig(); err != nil {
		return err
	}
	cmd.Println(configStore.Path())
	return nil
}

func runConfigSetAPIKey(cmd *cobra.Command, _ []string) error {
	if err := setupConfig(); err != nil {
		return err
	}

	cmd.Print("Enter Qdrant API key: ")
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("no API key entered")
	}

	cfg.QdrantAPIKey = key
	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Println("Qdrant API key saved.")
	return nil
}

func configValue(c *domain.Config, key string) (string, error) {
	switch key {
	case "embedding_model":
		return c.EmbeddingModel, nil
	case "llm_model":
		return c.LLMModel, nil
	case "ollama_base_url":
		return c.OllamaBaseURL, nil
	case "vector_store_kind":
		return c.VectorStoreKind.String(), nil
	case "qdrant_url":
		return c.QdrantURL, nil
	case "qdrant_collection":
		return c.QdrantCollection, nil
	case "selected_folders":
		return strings.Join(c.SelectedFolders, ","), nil
	case "allowed_extensions":
		return strings.Join(c.AllowedExtensions, ","), nil
	case "max_file_size_bytes":
		return strconv.FormatInt(c.MaxFileSizeBytes, 10), nil
	case "chunk_size":
		return strconv.Itoa(c.ChunkSize), nil
	case "chunk_overlap":
		return strconv.Itoa(c.ChunkOverlap), nil
	case "max_search_results":
		return strconv.Itoa(c.MaxSearchResults), nil
	case "enable_streaming":
		return strconv.FormatBool(c.StreamingEnabled()), nil
	case "force_target_language_response":
		return strconv.FormatBool(c.ForceTargetLanguageResponse), nil
	case "target_language":
		return c.TargetLanguage, nil
	case "max_history_turns":
		return strconv.Itoa(c.MaxHistoryTurns), nil
	case "max_context_chars":
		return strconv.Itoa(c.MaxContextChars), nil
	case "answer_without_context":
		return strconv.FormatBool(c.AnswerWithoutContext), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

//nolint:gocyclo // A flat key switch reads better than a reflection table here.
func applyConfigValue(c *domain.Config, key, value string) error {
	switch key {
	case "embedding_model":
		c.EmbeddingModel = value
	case "llm_model":
		c.LLMModel = value
	case "ollama_base_url":
		c.OllamaBaseURL = value
	case "vector_store_kind":
		kind := domain.VectorStoreKind(value)
		if !kind.IsValid() {
			return fmt.Errorf("unknown vector_store_kind %q (want sqlite or qdrant)", value)
		}
		c.VectorStoreKind = kind
	case "qdrant_url":
		c.QdrantURL = value
	case "qdrant_collection":
		c.QdrantCollection = value
	case "selected_folders":
		c.SelectedFolders = splitList(value)
	case "allowed_extensions":
		c.AllowedExtensions = splitList(value)
	case "max_file_size_bytes":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.MaxFileSizeBytes = n
	case "chunk_size":
		return setIntField(&c.ChunkSize, key, value)
	case "chunk_overlap":
		return setIntField(&c.ChunkOverlap, key, value)
	case "max_search_results":
		return setIntField(&c.MaxSearchResults, key, value)
	case "enable_streaming":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.EnableStreaming = &b
	case "force_target_language_response":
		return setBoolField(&c.ForceTargetLanguageResponse, key, value)
	case "target_language":
		c.TargetLanguage = value
	case "max_history_turns":
		return setIntField(&c.MaxHistoryTurns, key, value)
	case "max_context_chars":
		return setIntField(&c.MaxContextChars, key, value)
	case "answer_without_context":
		return setBoolField(&c.AnswerWithoutContext, key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setIntField(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBoolField(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
