package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/notifier"
	"github.com/amishk599/internscout/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run once, print matches, mark nothing",
	Long:  "Runs the full pipeline but logs alerts instead of sending them and leaves the ledger untouched.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	logger.Info("check mode: nothing will be sent or marked as sent")

	ledger, closeLedger, err := openLedger(cfg)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		return err
	}
	defer closeLedger()

	orch, err := buildOrchestrator(cfg, store.NewReadOnlyLedger(ledger), notifier.NewLogMessenger(logger), logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := orch.Run(ctx)
	printSummary(os.Stdout, state)
	if err != nil {
		return err
	}
	logger.Info("check complete")
	return nil
}
