package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("correct horse")
	salt := []byte("0123456789abcdef")

	k1 := DeriveKey(password, salt)
	k2 := DeriveKey(password, salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_SaltChangesKey(t *testing.T) {
	password := []byte("correct horse")

	k1 := DeriveKey(password, []byte("salt-one........"))
	k2 := DeriveKey(password, []byte("salt-two........"))

	assert.NotEqual(t, k1, k2)
}

func TestMakeVerifier(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	v1 := MakeVerifier(key)
	v2 := MakeVerifier(key)

	require.Len(t, v1, 32)
	assert.Equal(t, v1, v2)
	assert.NotEqual(t, key, v1)
}
