package pgp

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// GPG encrypts with the system gpg binary and the user's GnuPG keyring.
// This is the default encryptor: recipients decrypt with plain gpg, and
// key material never leaves GnuPG's own storage.
type GPG struct {
	// Binary is the gpg executable to run. Empty means "gpg" on PATH.
	Binary string
}

func (g *GPG) binary() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "gpg"
}

// Encrypt looks up the recipient's public key fingerprint, then runs gpg
// to produce an armored ciphertext. With sign set, gpg also signs with
// its default secret key.
func (g *GPG) Encrypt(recipient string, plaintext []byte, sign bool) (*Ciphertext, error) {
	fingerprint, err := g.lookupFingerprint(recipient)
	if err != nil {
		return nil, err
	}

	args := []string{"--batch", "--armor", "--trust-model", "always"}
	if sign {
		args = append(args, "--sign")
	}
	args = append(args, "--recipient", recipient, "--encrypt")

	cmd := exec.Command(g.binary(), args...)
	cmd.Stdin = bytes.NewReader(plaintext)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gpg encrypt for %s failed: %v: %s", recipient, err, strings.TrimSpace(stderr.String()))
	}

	return &Ciphertext{
		Armored:     stdout.String(),
		Fingerprint: fingerprint,
	}, nil
}

// lookupFingerprint finds the recipient's key fingerprint via gpg's
// machine-readable colon listing.
func (g *GPG) lookupFingerprint(recipient string) (string, error) {
	cmd := exec.Command(g.binary(), "--batch", "--with-colons", "--list-keys", recipient)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: gpg: %s: %w", recipient, strings.TrimSpace(stderr.String()), mcerrors.ErrKeyNotFound)
	}

	fingerprint, err := parseFingerprint(stdout.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", recipient, err)
	}

	return fingerprint, nil
}

// parseFingerprint extracts the first fpr record from colon-format key
// listing output. The fingerprint is the tenth field of the fpr line.
func parseFingerprint(listing string) (string, error) {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Split(line, ":")
		if fields[0] != "fpr" {
			continue
		}
		if len(fields) > 9 && fields[9] != "" {
			return fields[9], nil
		}
	}
	return "", mcerrors.ErrKeyNotFound
}
