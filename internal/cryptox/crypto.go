// Package cryptox holds the key-derivation helpers behind offline login.
// Credentials are never stored: the client keeps a salt and a verifier and
// re-derives the key from the password typed at the prompt.
package cryptox

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
)

// MakeVerifier reduces a derived key to the value cached for comparison.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// DeriveKey stretches password with salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
