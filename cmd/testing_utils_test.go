// Testing utilities shared between the command tests. This file provides
// helpers for pointing settings at temp directories, faking the Mattermost
// server, generating throwaway OpenPGP keys, and capturing output.

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	"github.com/mattercrypt/mattercrypt/internal/configs"
	"github.com/mattercrypt/mattercrypt/internal/credstore"
	"github.com/mattercrypt/mattercrypt/internal/mattermost"
)

// setupTestSettings points the settings file at a temp directory, stores the
// login password in an in-memory keyring, and swaps the keyring opener so
// the command never touches the OS secret store.
func setupTestSettings(t *testing.T, apiURL string) *credstore.Store {
	t.Helper()

	originalSettings := configs.UserMattercryptSettings
	configs.UserMattercryptSettings = &configs.UserSettings{
		SettingsPath: filepath.Join(t.TempDir(), configs.SettingsFileName),
	}
	t.Cleanup(func() {
		configs.UserMattercryptSettings = originalSettings
	})
	t.Cleanup(ResetGlobalState)

	if err := configs.SaveStoredSettings(&configs.StoredSettings{
		APIURL:   apiURL,
		Username: "alice",
	}); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}

	store := credstore.New(keyring.NewArrayKeyring(nil))
	if err := store.SetPassword("alice", "hunter2"); err != nil {
		t.Fatalf("Failed to store password: %v", err)
	}
	openStore = func() (*credstore.Store, error) { return store, nil }

	return store
}

type postRecord struct {
	channelID string
	message   string
}

// fakeServer records everything the CLI asked the Mattermost API to do.
type fakeServer struct {
	logins   []string
	lookups  []string
	channels [][2]string
	posts    []postRecord

	users map[string]mattermost.User
}

// newFakeMattermost starts an in-memory Mattermost API that accepts the
// alice/hunter2 login and knows bob. The server is closed with the test.
func newFakeMattermost(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()

	fake := &fakeServer{
		users: map[string]mattermost.User{
			"bob@example.com": {ID: "bob-id", Email: "bob@example.com"},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/login":
			var req struct {
				LoginID  string `json:"login_id"`
				Password string `json:"password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("Failed to decode login request: %v", err)
			}
			if req.Password != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message": "Enter a valid email or username and/or password."}`))
				return
			}
			fake.logins = append(fake.logins, req.LoginID)
			w.Header().Set("Token", "session-token")
			json.NewEncoder(w).Encode(mattermost.User{ID: "alice-id", Email: "alice@example.com"})

		case strings.HasPrefix(r.URL.Path, "/users/email/"):
			email := strings.TrimPrefix(r.URL.Path, "/users/email/")
			fake.lookups = append(fake.lookups, email)
			user, ok := fake.users[email]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message": "Unable to find the user."}`))
				return
			}
			json.NewEncoder(w).Encode(user)

		case r.URL.Path == "/channels/direct":
			var ids [2]string
			if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
				t.Errorf("Failed to decode channel request: %v", err)
			}
			fake.channels = append(fake.channels, ids)
			w.Write([]byte(`{"id": "dm-channel", "type": "D"}`))

		case r.URL.Path == "/posts":
			var req struct {
				ChannelID string `json:"channel_id"`
				Message   string `json:"message"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("Failed to decode post request: %v", err)
			}
			fake.posts = append(fake.posts, postRecord{channelID: req.ChannelID, message: req.Message})
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": "post-1"}`))

		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return fake, server
}

// newTestEntity generates a small RSA key pair for tests. Serializing the
// private key first signs the identities, which Serialize alone does not.
func newTestEntity(t *testing.T, name, email string) *openpgp.Entity {
	t.Helper()

	config := &packet.Config{RSABits: 1024}
	entity, err := openpgp.NewEntity(name, "", email, config)
	if err != nil {
		t.Fatalf("Failed to generate test entity: %v", err)
	}

	if err := entity.SerializePrivate(io.Discard, nil); err != nil {
		t.Fatalf("Failed to sign test entity: %v", err)
	}

	return entity
}

// setupKeyringDir writes pubring.asc (and optionally secring.asc) for the
// given entities into a fresh temp directory for the --keyring flag.
func setupKeyringDir(t *testing.T, public []*openpgp.Entity, secret []*openpgp.Entity) string {
	t.Helper()

	dir := t.TempDir()

	writeArmored(t, filepath.Join(dir, "pubring.asc"), openpgp.PublicKeyType, func(w io.Writer) error {
		for _, entity := range public {
			if err := entity.Serialize(w); err != nil {
				return err
			}
		}
		return nil
	})

	if len(secret) > 0 {
		writeArmored(t, filepath.Join(dir, "secring.asc"), openpgp.PrivateKeyType, func(w io.Writer) error {
			for _, entity := range secret {
				if err := entity.SerializePrivate(w, nil); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return dir
}

// writeArmored writes one armored block to path.
func writeArmored(t *testing.T, path, blockType string, serialize func(io.Writer) error) {
	t.Helper()

	var buf bytes.Buffer
	armorer, err := armor.Encode(&buf, blockType, nil)
	if err != nil {
		t.Fatalf("Failed to start armor block: %v", err)
	}
	if err := serialize(armorer); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	if err := armorer.Close(); err != nil {
		t.Fatalf("Failed to close armor block: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// unwrapArmor strips the decrypt instructions around a posted message and
// returns the armored ciphertext inside.
func unwrapArmor(t *testing.T, wrapped string) string {
	t.Helper()

	prefix := "```\necho \"\n"
	suffix := "\" | gpg --decrypt\n```"
	if !strings.HasPrefix(wrapped, prefix) || !strings.HasSuffix(wrapped, suffix) {
		t.Fatalf("Posted message is not wrapped in decrypt instructions: %q", wrapped)
	}
	return strings.TrimSuffix(strings.TrimPrefix(wrapped, prefix), suffix)
}

// decryptPosted opens a posted armored ciphertext with the given key ring.
func decryptPosted(t *testing.T, armored string, ring openpgp.EntityList) *openpgp.MessageDetails {
	t.Helper()

	block, err := armor.Decode(strings.NewReader(armored))
	if err != nil {
		t.Fatalf("Failed to decode armor: %v", err)
	}
	if block.Type != "PGP MESSAGE" {
		t.Fatalf("Expected PGP MESSAGE block, got %q", block.Type)
	}

	md, err := openpgp.ReadMessage(block.Body, ring, nil, nil)
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	return md
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// runCommand executes the root command with the given arguments, capturing
// everything it prints.
func runCommand(args ...string) (string, error) {
	RootCmd.SetArgs(args)
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}
