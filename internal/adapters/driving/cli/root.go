// Package cli provides the command-line interface for LexRAG.
// Commands are driving adapters: they parse flags, wire services and
// render results, delegating all behaviour to the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Wired by Execute via bootstrap; tests
// inject mocks directly.
var (
	queryService driving.QueryService
	indexService driving.IndexService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "lexrag",
	Short: "Index and question scanned legal filings",
	Long: `LexRAG indexes OCR output from scanned legal filings into a vector
store and answers natural-language questions over them.

Questions are routed through tiered retrieval: an exact filing number
in the question narrows the search to that document, and extracted
dates, amounts and measure types constrain it further. Answers cite
the source document and chunk they came from.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.lexrag)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
