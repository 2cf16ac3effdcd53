package pgp

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"

	// Registers RIPEMD160, the hash openpgp.Encrypt falls back to for
	// recipient keys that state no hash preferences; without this import
	// Encrypt fails for such keys.
	_ "golang.org/x/crypto/ripemd160"

	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// Keyring ring file names inside the keyring directory.
const (
	pubringFile = "pubring.asc"
	secringFile = "secring.asc"
)

// Keyring encrypts with armored key ring files read from a directory. It
// needs no gpg installation: pubring.asc supplies recipient public keys,
// and secring.asc supplies the signing key when signing is requested.
type Keyring struct {
	Dir string
}

// Encrypt selects the public key whose identity email matches recipient
// and produces an armored PGP MESSAGE block. With sign set, the first
// usable secret key from secring.asc signs the message.
func (k *Keyring) Encrypt(recipient string, plaintext []byte, sign bool) (*Ciphertext, error) {
	pubring, err := readArmoredRing(filepath.Join(k.Dir, pubringFile))
	if err != nil {
		return nil, err
	}

	to := entityForEmail(pubring, recipient)
	if to == nil {
		return nil, fmt.Errorf("%s has no key in %s: %w", recipient, pubringFile, mcerrors.ErrKeyNotFound)
	}

	var signer *openpgp.Entity
	if sign {
		secring, err := readArmoredRing(filepath.Join(k.Dir, secringFile))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%s: %w", secringFile, mcerrors.ErrNoSigningKey)
			}
			return nil, err
		}
		signer = firstSigner(secring)
		if signer == nil {
			return nil, fmt.Errorf("%s has no usable secret key: %w", secringFile, mcerrors.ErrNoSigningKey)
		}
	}

	var buf bytes.Buffer
	armorer, err := armor.Encode(&buf, "PGP MESSAGE", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start armor block: %w", err)
	}

	w, err := openpgp.Encrypt(armorer, []*openpgp.Entity{to}, signer, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt for %s: %w", recipient, err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to encrypt for %s: %w", recipient, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to encrypt for %s: %w", recipient, err)
	}
	if err := armorer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish armor block: %w", err)
	}

	return &Ciphertext{
		Armored:     buf.String(),
		Fingerprint: fmt.Sprintf("%X", to.PrimaryKey.Fingerprint),
	}, nil
}

// readArmoredRing reads an armored key ring file.
func readArmoredRing(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key ring: %w", err)
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read key ring %s: %w", path, err)
	}

	return entities, nil
}

// entityForEmail returns the first entity with an identity matching the
// email, case-insensitively.
func entityForEmail(entities openpgp.EntityList, email string) *openpgp.Entity {
	for _, entity := range entities {
		for _, identity := range entity.Identities {
			if identity.UserId != nil && strings.EqualFold(identity.UserId.Email, email) {
				return entity
			}
		}
	}
	return nil
}

// firstSigner returns the first entity holding a decrypted private key.
func firstSigner(entities openpgp.EntityList) *openpgp.Entity {
	for _, entity := range entities {
		if entity.PrivateKey != nil && !entity.PrivateKey.Encrypted {
			return entity
		}
	}
	return nil
}
