// ABOUTME: Store interface and data types for backpack persistence
// ABOUTME: Defines User, OAuthToken structs and typed errors for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a user with an email that is already registered.
var ErrEmailExists = errors.New("email already registered")

// ErrDuplicateCredential is returned when a generated credential collides with an
// existing row. With 256-bit random tokens this is effectively unreachable, but the
// unique indexes make the database the final arbiter.
var ErrDuplicateCredential = errors.New("credential already exists")

// User is an account that can sign in to the web app and call tools over MCP.
// The API key is the long-lived bearer credential; the OAuth client pair supports
// the client_credentials grant for clients that cannot send custom headers.
type User struct {
	ID                int64
	Email             string
	PasswordHash      string
	APIKey            string
	OAuthClientID     string
	OAuthClientSecret string
	CreatedAt         time.Time
}

// OAuthToken is a short-lived access token issued via the /token endpoint.
// Tokens are never updated; expiry is enforced at lookup time.
type OAuthToken struct {
	ID          string
	UserID      int64
	AccessToken string
	ExpiresAt   time.Time
}

// Store defines the persistence operations backpack needs.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAPIKey(ctx context.Context, apiKey string) (*User, error)
	GetUserByLogin(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByClientCredentials(ctx context.Context, clientID, clientSecret string) (*User, error)
	ListUsers(ctx context.Context, limit int) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)

	// OAuth tokens
	CreateOAuthToken(ctx context.Context, token *OAuthToken) error
	GetUserByAccessToken(ctx context.Context, accessToken string) (*User, error)
	DeleteExpiredOAuthTokens(ctx context.Context) error

	Close() error
}
