package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the ids of every opportunity already notified",
	RunE:  runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	ledger, closeLedger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	ids, err := ledger.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	out := cmd.OutOrStdout()
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	fmt.Fprintf(out, "%d ids in %s\n", len(ids), cfg.Ledger.Path)
	return nil
}
