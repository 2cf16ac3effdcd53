// Package credstore stores the Mattermost login password in the operating
// system's secret store.
//
// The password is never written to the settings file on disk. It lives in
// the platform keyring (Keychain, Secret Service, or Credential Manager)
// under the service name "mattercryptclient", keyed by login username.
//
// # Usage
//
// Open the system-backed store once per process:
//
//	store, err := credstore.Open()
//
// Tests construct a Store over an in-memory backend instead:
//
//	store := credstore.New(keyring.NewArrayKeyring(nil))
//
// A lookup for a username with no stored entry returns
// mcerrors.ErrCredentialNotFound, distinguishable with errors.Is from
// backend failures such as a locked or unavailable keyring.
package credstore
