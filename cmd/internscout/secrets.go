package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/internscout/internal/secrets"
)

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the Telegram bot token in the OS keychain",
}

var secretsSetCmd = &cobra.Command{
	Use:   "set [account]",
	Short: "Store the bot token (read from stdin)",
	Long: "Stores the bot token under the given keychain account. Without an account the\n" +
		"configured keyring_account, or one derived from the chat id, is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSecretsSet,
}

var secretsDeleteCmd = &cobra.Command{
	Use:   "delete [account]",
	Short: "Remove the stored bot token",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSecretsDelete,
}

func init() {
	rootCmd.AddCommand(secretsCmd)
	secretsCmd.AddCommand(secretsSetCmd, secretsDeleteCmd)
}

func secretsAccount(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return "", err
	}
	account := telegramAccount(cfg)
	if account == "" {
		return "", errors.New("no account given and none configured (set notification.telegram.chat_id or keyring_account)")
	}
	return account, nil
}

func runSecretsSet(cmd *cobra.Command, args []string) error {
	account, err := secretsAccount(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Bot token for %s: ", account)
	token, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && token == "" {
		return fmt.Errorf("read token: %w", err)
	}
	if err := secrets.Set(account, strings.TrimSpace(token)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored token for %s\n", account)
	return nil
}

func runSecretsDelete(cmd *cobra.Command, args []string) error {
	account, err := secretsAccount(args)
	if err != nil {
		return err
	}
	if err := secrets.Delete(account); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted token for %s\n", account)
	return nil
}
