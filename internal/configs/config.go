package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattercrypt/mattercrypt/internal/credstore"
	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// LoadStoredSettings reads and validates the on-disk settings document.
// A missing file yields mcerrors.ErrSettingsNotFound so callers can fall
// back to first-run setup; a malformed or incomplete file yields
// mcerrors.ErrSettingsInvalid.
func LoadStoredSettings() (*StoredSettings, error) {
	path := UserMattercryptSettings.SettingsPath

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, mcerrors.ErrSettingsNotFound)
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	stored := &StoredSettings{}
	if err := json.Unmarshal(data, stored); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, mcerrors.ErrSettingsInvalid)
	}

	if stored.APIURL == "" || stored.Username == "" {
		return nil, fmt.Errorf("%s: api_url and username are required: %w", path, mcerrors.ErrSettingsInvalid)
	}

	return stored, nil
}

// SaveStoredSettings writes the settings document, creating any missing
// parent directories. An existing file is overwritten.
func SaveStoredSettings(stored *StoredSettings) error {
	path := UserMattercryptSettings.SettingsPath

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// LoadSettings assembles the runtime settings from the settings file and
// the credential store.
func LoadSettings(store *credstore.Store) (*Settings, error) {
	stored, err := LoadStoredSettings()
	if err != nil {
		return nil, err
	}

	password, err := store.Password(stored.Username)
	if err != nil {
		return nil, err
	}

	return &Settings{
		APIURL:   stored.APIURL,
		Username: stored.Username,
		Password: password,
	}, nil
}
