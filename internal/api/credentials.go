package api

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "deskpad"

// SavePassword stores the UI password for host in the OS keychain.
func SavePassword(host, password string) error {
	if err := keyring.Set(keyringService, host, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}

// LookupPassword returns the stored UI password for host. ok is false when none is stored.
func LookupPassword(host string) (string, bool, error) {
	pw, err := keyring.Get(keyringService, host)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return pw, true, nil
}

// ForgetPassword removes the stored UI password for host. Missing entries are not an error.
func ForgetPassword(host string) error {
	err := keyring.Delete(keyringService, host)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete password from keyring: %w", err)
	}
	return nil
}
