package config

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name in the OS keychain:
	// macOS Keychain, Windows Credential Manager, or Linux Secret Service.
	keyringService = "reqtrace"
	keyringItem    = "github-token"
)

// KeychainToken retrieves the GitHub token from the OS keychain. A token
// that was never stored is not an error and returns "".
func KeychainToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token from keychain: %w", err)
	}
	return token, nil
}

// SaveKeychainToken stores the GitHub token in the OS keychain.
func SaveKeychainToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringItem, token); err != nil {
		return fmt.Errorf("save token to keychain: %w", err)
	}
	return nil
}

// DeleteKeychainToken removes the stored token. Deleting a token that was
// never stored is not an error.
func DeleteKeychainToken() error {
	err := keyring.Delete(keyringService, keyringItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete token from keychain: %w", err)
	}
	return nil
}
