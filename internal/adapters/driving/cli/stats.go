package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Long:  `Shows the number of indexed chunks and a sample of metadata keys.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		if err := ensureConfig(); err != nil {
			return err
		}
		vectorStore = buildVectorStore()
	}
	if vectorStore == nil {
		return errors.New("vector store not configured")
	}

	ctx := cmd.Context()
	if err := vectorStore.Ping(ctx); err != nil {
		return fmt.Errorf("vector store unreachable: %w", err)
	}

	count, err := vectorStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}
	keys, err := vectorStore.SampleMetadataKeys(ctx, 10)
	if err != nil {
		return fmt.Errorf("sample metadata: %w", err)
	}

	cmd.Printf("Total chunks: %d\n", count)
	if len(keys) > 0 {
		cmd.Println("Sample metadata keys:")
		for _, key := range keys {
			cmd.Printf("  %s\n", key)
		}
	}
	return nil
}
