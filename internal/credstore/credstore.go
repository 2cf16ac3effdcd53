package credstore

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// Service is the credential-store service name for all mattercrypt entries.
const Service = "mattercryptclient"

// Store persists the login password in the operating system's secret store.
// Entries are keyed by login username under the Service name.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring (Keychain on macOS,
// Secret Service on Linux, Credential Manager on Windows).
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: Service,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open system keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// New wraps an existing keyring backend. Tests pass keyring.NewArrayKeyring
// to avoid touching the OS secret store.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Password returns the password stored for username.
// A missing entry yields mcerrors.ErrCredentialNotFound.
func (s *Store) Password(username string) (string, error) {
	item, err := s.ring.Get(username)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("no stored password for %s: %w", username, mcerrors.ErrCredentialNotFound)
		}
		return "", fmt.Errorf("failed to read password from keyring: %w", err)
	}
	return string(item.Data), nil
}

// SetPassword creates or replaces the password stored for username.
func (s *Store) SetPassword(username, password string) error {
	item := keyring.Item{
		Key:   username,
		Data:  []byte(password),
		Label: Service,
	}
	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}
