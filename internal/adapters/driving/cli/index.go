package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
)

var (
	indexWatch   bool
	indexDetails bool
)

var indexCmd = &cobra.Command{
	Use:   "index [source-dir]",
	Short: "Index OCR output into the vector store",
	Long: `Indexes every document directory under the source directory.

Each directory holds the OCR output of one scanned filing (output.json)
plus an optional metadata blob. Documents already indexed at the current
metadata version are skipped. With --watch, the command keeps running
and indexes documents as they appear.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep watching the source directory for new documents")
	indexCmd.Flags().BoolVar(&indexDetails, "details", false, "print per-document outcomes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	sourceDir := ""
	if len(args) > 0 {
		sourceDir = args[0]
	}
	if err := ensureIndexService(sourceDir); err != nil {
		return err
	}

	ctx := cmd.Context()
	report, err := indexService.Run(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	printReport(cmd, report)

	if !indexWatch {
		return nil
	}
	return watchAndIndex(cmd)
}

// watchAndIndex consumes the source's watch channel until interrupted,
// indexing each document as its OCR output lands.
func watchAndIndex(cmd *cobra.Command) error {
	source := watchSource
	if source == nil {
		return errors.New("source does not support watching")
	}

	ctx := cmd.Context()
	ch, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}

	cmd.Println("Watching for new documents (Ctrl+C to stop)...")
	for id := range ch {
		doc, err := source.Load(ctx, id)
		if err != nil {
			logger.Warn("Loading %s failed: %v", id, err)
			continue
		}
		outcome := indexService.IndexDocument(ctx, doc)
		printOutcome(cmd, outcome)
	}
	return nil
}

func printReport(cmd *cobra.Command, report domain.BatchReport) {
	cmd.Printf("Indexed %d documents: %d new, %d cached, %d failed (%.1f%% success)\n",
		report.Total, report.Indexed, report.Cached, report.Failed, report.SuccessRate)

	for _, outcome := range report.Outcomes {
		if indexDetails || outcome.Status == domain.IndexStatusFailed {
			printOutcome(cmd, outcome)
		}
	}
}

func printOutcome(cmd *cobra.Command, outcome domain.IndexOutcome) {
	switch outcome.Status {
	case domain.IndexStatusFailed:
		cmd.Printf("  %s: failed: %s\n", outcome.DocumentID, outcome.Err)
	case domain.IndexStatusCached:
		cmd.Printf("  %s: cached\n", outcome.DocumentID)
	default:
		cmd.Printf("  %s: %d chunks, %d metadata fields\n",
			outcome.DocumentID, outcome.ChunksIndexed, outcome.MetadataFields)
	}
}
