// Package pgp produces OpenPGP ciphertext for message recipients.
//
// The Encryptor interface has two implementations:
//
//   - GPG shells out to the gpg binary and uses the user's existing GnuPG
//     keyring. This is the default, and matches how recipients are told to
//     decrypt (echo "..." | gpg --decrypt).
//   - Keyring reads armored pubring.asc/secring.asc files from a directory
//     with golang.org/x/crypto/openpgp, for hosts without a gpg
//     installation. Selected with the --keyring flag.
//
// Both return the armored ciphertext together with the fingerprint of the
// recipient's primary key, which the send pipeline prints in its
// confirmation block. Neither implementation generates, imports, or
// trusts keys; a recipient without a key is a hard
// mcerrors.ErrKeyNotFound.
package pgp
