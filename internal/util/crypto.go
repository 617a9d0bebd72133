package util

import (
	"crypto/rand"
	"encoding/base64"
)

// CryptoRandomBytes generates cryptographically secure random bytes
func CryptoRandomBytes(length int64) ([]byte, error) {
	buf := make([]byte, length)
	_, err := rand.Read(buf)
	return buf, err
}

// GenerateToken returns an opaque URL-safe token carrying entropyBytes bytes
// of entropy. Authorization codes and bearer tokens are issued with 48 bytes.
func GenerateToken(entropyBytes int64) (string, error) {
	raw, err := CryptoRandomBytes(entropyBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
