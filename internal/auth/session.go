// ABOUTME: Session cookie helpers for the web app
// ABOUTME: The session value is the user's API key; lifecycle is client-side only

package auth

import (
	"fmt"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the API key for web requests.
const SessionCookieName = "session"

// DefaultSessionMaxAge is the client-side cookie lifetime.
const DefaultSessionMaxAge = 30 * 24 * time.Hour

// CreateSessionCookie builds the Set-Cookie value for a login session.
// Wire format is fixed: session=<tok>; Path=/; HttpOnly; SameSite=Lax; Max-Age=<secs>
func CreateSessionCookie(token string, maxAge time.Duration) string {
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	return fmt.Sprintf("%s=%s; Path=/; HttpOnly; SameSite=Lax; Max-Age=%d",
		SessionCookieName, token, int(maxAge.Seconds()))
}

// ClearSessionCookie builds the Set-Cookie value that expires the session
// immediately.
func ClearSessionCookie() string {
	return fmt.Sprintf("%s=; Path=/; HttpOnly; SameSite=Lax; Max-Age=0", SessionCookieName)
}

// SessionFromCookie extracts the session token from a raw Cookie header.
// Returns "" when the header is empty or carries no session cookie.
func SessionFromCookie(cookieHeader string) string {
	if cookieHeader == "" {
		return ""
	}

	for _, part := range strings.Split(cookieHeader, ";") {
		part = strings.TrimSpace(part)
		name, value, found := strings.Cut(part, "=")
		if found && name == SessionCookieName {
			return value
		}
	}
	return ""
}
