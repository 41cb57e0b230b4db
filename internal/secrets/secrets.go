// Package secrets keeps channel credentials in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups internscout's secrets in the OS keychain.
const KeyringService = "internscout"

// ErrNotFound means no secret is stored for the account.
var ErrNotFound = errors.New("secret not found in keychain")

// TelegramAccount is the default keychain account for a bot token.
func TelegramAccount(chatID string) string {
	return "internscout:telegram:" + chatID
}

// Resolve returns value when set, otherwise the keychain entry for account.
// An empty value with no account resolves to "" without error.
func Resolve(value, account string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	if strings.TrimSpace(account) == "" {
		return "", nil
	}
	secret, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	if err != nil {
		return "", fmt.Errorf("read keychain: %w", err)
	}
	return strings.TrimSpace(secret), nil
}

// Set stores secret under account.
func Set(account, secret string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, secret)
}

// Delete removes the secret stored under account.
func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	return err
}
