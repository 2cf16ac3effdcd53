// Package errors provides typed error values for the mattercrypt client.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Settings errors: Stored configuration issues (ErrSettingsNotFound)
//   - Credential errors: System keyring issues (ErrCredentialNotFound)
//   - Server errors: Unexpected Mattermost responses (ErrTokenMissing)
//   - Encryption errors: Recipient key issues (ErrKeyNotFound)
//
// # Usage
//
// Return errors from internal packages:
//
//	if stored.Username == "" {
//	    return nil, errors.ErrSettingsInvalid
//	}
//
// Handle errors in the CLI layer:
//
//	settings, err := configs.LoadSettings(store)
//	if errors.Is(err, mcerrors.ErrSettingsNotFound) {
//	    // Fall back to first-run initialization
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("looking up key for %s: %w", recipient, errors.ErrKeyNotFound)
package errors
