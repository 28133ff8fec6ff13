package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all query history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func ensureHistoryStore() error {
	if historyStore != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}
	store, err := buildHistoryStore()
	if err != nil {
		return err
	}
	historyStore = store
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := ensureHistoryStore(); err != nil {
		return err
	}
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	entries, err := historyStore.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(entries) == 0 {
		cmd.Println("No queries recorded yet.")
		return nil
	}

	for _, entry := range entries {
		cmd.Printf("%s  %-22s  %3d results  %s\n",
			entry.AskedAt.Local().Format("2006-01-02 15:04"),
			entry.Strategy, entry.ResultCount, entry.Query)
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	if err := ensureHistoryStore(); err != nil {
		return err
	}
	if err := historyStore.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	cmd.Println("History cleared.")
	return nil
}
