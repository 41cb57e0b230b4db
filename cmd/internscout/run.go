package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long:  "Plan, scrape, extract, deduplicate and notify once, then print the run log. Schedule it with cron or a systemd timer.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	lock, err := store.AcquireRunLock(cfg.Ledger.Path)
	if err != nil {
		logger.Error("cannot start run", "error", err)
		return err
	}
	defer lock.Release()

	ledger, closeLedger, err := openLedger(cfg)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		return err
	}
	defer closeLedger()

	messenger := setupMessenger(cfg, newHTTPClient(), logger)
	orch, err := buildOrchestrator(cfg, ledger, messenger, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := orch.Run(ctx)
	printSummary(os.Stdout, state)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
