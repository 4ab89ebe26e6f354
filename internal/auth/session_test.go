// ABOUTME: Tests for session cookie construction and parsing
// ABOUTME: Pins the exact wire format the web app and browsers exchange

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateSessionCookie(t *testing.T) {
	cookie := CreateSessionCookie("abc123", 30*24*time.Hour)
	assert.Equal(t, "session=abc123; Path=/; HttpOnly; SameSite=Lax; Max-Age=2592000", cookie)
}

func TestCreateSessionCookie_DefaultMaxAge(t *testing.T) {
	cookie := CreateSessionCookie("abc123", 0)
	assert.Contains(t, cookie, "Max-Age=2592000")
}

func TestClearSessionCookie(t *testing.T) {
	assert.Equal(t, "session=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0", ClearSessionCookie())
}

func TestSessionFromCookie(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"only session", "session=XYZ", "XYZ"},
		{"among others", "foo=bar; session=XYZ", "XYZ"},
		{"session first", "session=XYZ; foo=bar", "XYZ"},
		{"extra whitespace", "foo=bar;  session=XYZ", "XYZ"},
		{"no session", "foo=bar; theme=dark", ""},
		{"cleared value", "session=", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionFromCookie(tt.header))
		})
	}
}
