package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "recruitmail"

// Keys for the optional "remember login" credentials.
const (
	KeyMailboxEmail    = "mailbox-email"
	KeyMailboxPassword = "mailbox-password"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/recruitmail/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("recruitmail-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// SaveLogin remembers the mailbox credentials between runs.
func SaveLogin(email, password string) error {
	if err := Set(KeyMailboxEmail, email); err != nil {
		return err
	}
	return Set(KeyMailboxPassword, password)
}

// LoadLogin returns remembered mailbox credentials, if any.
func LoadLogin() (email, password string, err error) {
	email, err = Get(KeyMailboxEmail)
	if err != nil {
		return "", "", err
	}
	password, err = Get(KeyMailboxPassword)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// ForgetLogin removes remembered mailbox credentials.
func ForgetLogin() error {
	if err := Delete(KeyMailboxEmail); err != nil {
		return err
	}
	return Delete(KeyMailboxPassword)
}
