package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and set configuration values.

Keys use dot notation, e.g.:
  source.dir          directory of OCR output folders
  chroma.url          Chroma server URL
  chroma.collection   collection name
  embedding.api_key   OpenAI API key (or set OPENAI_API_KEY)
  llm.provider        anthropic (default) or gemini
  llm.api_key         provider API key (or the provider's env variable)
  chunking.max_size   maximum chunk size in tokens
  chunking.overlap    overlap between chunks in characters
  indexing.workers    concurrent documents during indexing`,
	RunE: runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// displayKeys lists the known keys in the order they are shown.
var displayKeys = []string{
	keySourceDir,
	keyChromaURL,
	keyChromaCollection,
	keyEmbeddingAPIKey,
	keyEmbeddingModel,
	keyLLMProvider,
	keyLLMAPIKey,
	keyLLMModel,
	keyChunkSize,
	keyChunkOverlap,
	keyIndexWorkers,
}

// secretKeys are masked when displayed.
var secretKeys = map[string]bool{
	keyEmbeddingAPIKey: true,
	keyLLMAPIKey:       true,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	for _, key := range displayKeys {
		value, ok := configStore.Get(key)
		if !ok {
			continue
		}
		if secretKeys[key] {
			value = maskSecret(fmt.Sprintf("%v", value))
		}
		cmd.Printf("%s = %v\n", key, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, raw := args[0], args[1]

	// Store numbers and booleans typed so GetInt/GetBool see them.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}
	cmd.Println(configStore.Path())
	return nil
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
