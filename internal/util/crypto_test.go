package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRandomBytes(t *testing.T) {
	a, err := CryptoRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := CryptoRandomBytes(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two draws must not collide")
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(48)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 48)

	other, err := GenerateToken(48)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
