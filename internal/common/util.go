package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string is twice as long as size, since each byte
// encodes to two hex characters. It returns an error if the system random
// number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size cryptographically random bytes. A
// failure of the system random source is unrecoverable, so it panics rather
// than returning an error.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with
// zeros. Useful for clearing passwords from memory after use. A nil slice
// is a no-op.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
