// ABOUTME: Random credential generation for API keys and OAuth tokens
// ABOUTME: 32 bytes from crypto/rand, hex-encoded to 64 lowercase characters

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of every generated credential.
const tokenBytes = 32

// GenerateToken returns a cryptographically random 64-character lowercase hex
// string. The same generator is used for API keys, OAuth client ids/secrets,
// and OAuth access tokens.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
