package credentials

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName       = "rpctoast"
	telegramTokenName = "TELEGRAM_BOT_TOKEN"
	telegramTokenFile = ".tg.token"
)

// ErrNotFound indicates that a requested secret is in neither the keyring
// nor the config-dir fallback file.
var ErrNotFound = errors.New("secret not found")

// TelegramToken reads the bot token from the system keyring, falling back
// to the token file under the user config dir.
func TelegramToken() (string, error) {
	secret, err := keyring.Get(serviceName, telegramTokenName)
	if err == nil {
		return strings.TrimSpace(secret), nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("read secret %q: %w", telegramTokenName, err)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path.Join(dir, serviceName, telegramTokenFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func SetTelegramToken(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("secret %q cannot be empty", telegramTokenName)
	}
	if err := keyring.Set(serviceName, telegramTokenName, trimmed); err != nil {
		return fmt.Errorf("store secret %q: %w", telegramTokenName, err)
	}
	return nil
}

func DeleteTelegramToken() error {
	if err := keyring.Delete(serviceName, telegramTokenName); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete secret %q: %w", telegramTokenName, err)
	}
	return nil
}
