package configs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"

	"github.com/mattercrypt/mattercrypt/internal/credstore"
	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// fakePasswordReader returns a readPassword replacement that hands out the
// given passwords one per call.
func fakePasswordReader(passwords ...string) func(int) ([]byte, error) {
	calls := 0
	return func(int) ([]byte, error) {
		if calls >= len(passwords) {
			return nil, fmt.Errorf("unexpected password prompt %d", calls+1)
		}
		password := passwords[calls]
		calls++
		return []byte(password), nil
	}
}

func TestInitSettingsPersistsBothStores(t *testing.T) {
	tempDir := t.TempDir()
	oldSettingsPath := UserMattercryptSettings.SettingsPath
	UserMattercryptSettings.SettingsPath = filepath.Join(tempDir, SettingsFileName)
	defer func() {
		UserMattercryptSettings.SettingsPath = oldSettingsPath
	}()

	oldReadPassword := readPassword
	readPassword = fakePasswordReader("hunter2", "hunter2")
	defer func() {
		readPassword = oldReadPassword
	}()

	reader := bufio.NewReader(strings.NewReader("https://chat.example.com/api/v4\nalice\n"))
	store := credstore.New(keyring.NewArrayKeyring(nil))

	settings, err := InitSettings(reader, store)
	if err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}

	if settings.APIURL != "https://chat.example.com/api/v4" {
		t.Errorf("Expected APIURL %q, got %q", "https://chat.example.com/api/v4", settings.APIURL)
	}
	if settings.Username != "alice" {
		t.Errorf("Expected Username %q, got %q", "alice", settings.Username)
	}
	if settings.Password != "hunter2" {
		t.Errorf("Expected Password %q, got %q", "hunter2", settings.Password)
	}

	// The settings file must exist and load back to the same values.
	loaded, err := LoadStoredSettings()
	if err != nil {
		t.Fatalf("LoadStoredSettings after init failed: %v", err)
	}
	if loaded.APIURL != settings.APIURL || loaded.Username != settings.Username {
		t.Errorf("Stored settings %+v do not match initialized settings %+v", loaded, settings)
	}

	// The password must be in the credential store.
	password, err := store.Password("alice")
	if err != nil {
		t.Fatalf("Password after init failed: %v", err)
	}
	if password != "hunter2" {
		t.Errorf("Expected stored password %q, got %q", "hunter2", password)
	}
}

func TestInitSettingsRoundTripThroughLoad(t *testing.T) {
	tempDir := t.TempDir()
	oldSettingsPath := UserMattercryptSettings.SettingsPath
	UserMattercryptSettings.SettingsPath = filepath.Join(tempDir, SettingsFileName)
	defer func() {
		UserMattercryptSettings.SettingsPath = oldSettingsPath
	}()

	oldReadPassword := readPassword
	readPassword = fakePasswordReader("secret", "secret")
	defer func() {
		readPassword = oldReadPassword
	}()

	reader := bufio.NewReader(strings.NewReader("https://chat.example.com/api/v4\nalice\n"))
	store := credstore.New(keyring.NewArrayKeyring(nil))

	initialized, err := InitSettings(reader, store)
	if err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}

	loaded, err := LoadSettings(store)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if *loaded != *initialized {
		t.Errorf("LoadSettings = %+v, expected %+v", loaded, initialized)
	}
}

func TestInitSettingsPasswordMismatch(t *testing.T) {
	tempDir := t.TempDir()
	oldSettingsPath := UserMattercryptSettings.SettingsPath
	UserMattercryptSettings.SettingsPath = filepath.Join(tempDir, SettingsFileName)
	defer func() {
		UserMattercryptSettings.SettingsPath = oldSettingsPath
	}()

	oldReadPassword := readPassword
	readPassword = fakePasswordReader("hunter2", "hunter3")
	defer func() {
		readPassword = oldReadPassword
	}()

	reader := bufio.NewReader(strings.NewReader("https://chat.example.com/api/v4\nalice\n"))
	store := credstore.New(keyring.NewArrayKeyring(nil))

	_, err := InitSettings(reader, store)
	if err == nil {
		t.Fatal("Expected error for mismatched passwords, got nil")
	}
	if !errors.Is(err, mcerrors.ErrPasswordMismatch) {
		t.Errorf("Expected ErrPasswordMismatch, got: %v", err)
	}

	// Nothing may be persisted in either store.
	if _, err := os.Stat(UserMattercryptSettings.SettingsPath); !os.IsNotExist(err) {
		t.Error("Settings file must not be written on password mismatch")
	}
	if _, err := store.Password("alice"); !errors.Is(err, mcerrors.ErrCredentialNotFound) {
		t.Errorf("Credential store must stay empty on password mismatch, got: %v", err)
	}
}

func TestInitSettingsTrimsPromptInput(t *testing.T) {
	tempDir := t.TempDir()
	oldSettingsPath := UserMattercryptSettings.SettingsPath
	UserMattercryptSettings.SettingsPath = filepath.Join(tempDir, SettingsFileName)
	defer func() {
		UserMattercryptSettings.SettingsPath = oldSettingsPath
	}()

	oldReadPassword := readPassword
	readPassword = fakePasswordReader("p", "p")
	defer func() {
		readPassword = oldReadPassword
	}()

	reader := bufio.NewReader(strings.NewReader("  https://chat.example.com/api/v4  \n  alice  \n"))
	store := credstore.New(keyring.NewArrayKeyring(nil))

	settings, err := InitSettings(reader, store)
	if err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}

	if settings.APIURL != "https://chat.example.com/api/v4" {
		t.Errorf("Expected trimmed APIURL, got %q", settings.APIURL)
	}
	if settings.Username != "alice" {
		t.Errorf("Expected trimmed Username, got %q", settings.Username)
	}
}
