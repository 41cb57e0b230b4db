package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a sample opportunity through the configured messenger. The ledger is not touched.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	m := setupMessenger(cfg, newHTTPClient(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := notifier.SendTestMessage(ctx, m); err != nil {
		logger.Error("test notification failed", "error", err)
		return err
	}
	logger.Info("test notification sent successfully")
	return nil
}
