// Package configs manages the persisted client settings for mattercrypt.
//
// Settings are split across two stores:
//
//   - Settings file: <UserConfigDir>/mcc, a small JSON document holding the
//     server API URL and the login username
//   - Credential store: the OS secret store, holding the login password
//     (see the credstore package)
//
// The password never touches the settings file. The in-memory Settings
// value combines both stores and is assembled once at startup.
//
// # Lifecycle
//
// LoadSettings reads the settings file and fetches the password from the
// credential store. A missing settings file yields ErrSettingsNotFound,
// which the entry point treats as the first-run signal and answers by
// running InitSettings. A corrupt or incomplete file yields
// ErrSettingsInvalid and is not silently repaired.
//
// InitSettings collects the API URL, username, and a twice-entered
// password interactively, persists both stores, and returns the assembled
// Settings. The two writes are not transactional; a crash in between can
// leave them inconsistent, which the next run surfaces as a credential
// lookup failure.
//
// # Test Seams
//
// UserMattercryptSettings carries the settings file path and is replaced
// by tests with a temporary directory. readPassword defaults to
// term.ReadPassword and is replaced by tests with a canned reader.
package configs
