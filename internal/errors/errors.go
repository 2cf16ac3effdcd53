package errors

import "errors"

// Settings errors indicate issues with the stored client configuration.
var (
	// ErrSettingsNotFound indicates no settings file exists yet.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrSettingsInvalid indicates the settings file is malformed or incomplete.
	ErrSettingsInvalid = errors.New("settings file is invalid")
)

// Credential errors indicate issues with the system credential store.
var (
	// ErrCredentialNotFound indicates no password is stored for the account.
	ErrCredentialNotFound = errors.New("credential not found in system keyring")

	// ErrPasswordMismatch indicates the two password entries did not match.
	ErrPasswordMismatch = errors.New("the passwords don't match")
)

// Server errors indicate unexpected responses from the Mattermost server.
var (
	// ErrTokenMissing indicates a login response carried no session token.
	ErrTokenMissing = errors.New("login response contained no session token")
)

// Encryption errors indicate failures while preparing a message for a recipient.
var (
	// ErrKeyNotFound indicates no public key could be located for the recipient.
	ErrKeyNotFound = errors.New("public key not found for recipient")

	// ErrNoSigningKey indicates signing was requested but no secret key is available.
	ErrNoSigningKey = errors.New("no secret key available for signing")
)
