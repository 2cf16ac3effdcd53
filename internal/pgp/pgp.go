package pgp

// Ciphertext is the armored result of encrypting a message for one
// recipient.
type Ciphertext struct {
	Armored     string
	Fingerprint string
}

// Encryptor prepares a message for a single recipient. Implementations
// only consume keys that already exist; generating, importing, or trusting
// keys is out of scope.
type Encryptor interface {
	Encrypt(recipient string, plaintext []byte, sign bool) (*Ciphertext, error)
}
