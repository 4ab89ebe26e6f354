// ABOUTME: Tests for random credential generation
// ABOUTME: Validates length, alphabet, and non-collision of generated tokens

package auth

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestGenerateToken_Format(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Regexp(t, hexToken, token)
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		require.False(t, seen[token], "token collision after %d draws", i)
		seen[token] = true
	}
}
