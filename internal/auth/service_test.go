// ABOUTME: Tests for the auth service against a real SQLite store
// ABOUTME: Covers signup/login round trips, key verification, and OAuth tokens

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/backpack/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	svc, err := NewService(Config{Store: s})
	require.NoError(t, err)
	return svc, s
}

func TestCreateUser_GeneratesCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Regexp(t, `^[0-9a-f]{64}$`, user.APIKey)
	assert.Regexp(t, `^[0-9a-f]{64}$`, user.OAuthClientID)
	assert.Regexp(t, `^[0-9a-f]{64}$`, user.OAuthClientSecret)
	assert.NotEqual(t, user.APIKey, user.OAuthClientID)
}

func TestCreateThenAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	got, err := svc.AuthenticateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, created.APIKey, got.APIKey)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	_, err = svc.AuthenticateUser(ctx, "a@b.com", "wrongwrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AuthenticateUser(context.Background(), "nobody@b.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_BcryptScheme(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	hasher, err := NewHasher(SchemeBcrypt)
	require.NoError(t, err)
	svc, err := NewService(Config{Store: s, Hasher: hasher})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	_, err = svc.AuthenticateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	_, err = svc.AuthenticateUser(ctx, "a@b.com", "wrongwrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyAPIKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	got, err := svc.VerifyAPIKey(ctx, created.APIKey)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.VerifyAPIKey(ctx, "0000000000000000000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserByEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	got, err := svc.GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)

	_, err = svc.GetUserByEmail(ctx, "x@y.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestOAuthTokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	issued, err := svc.CreateOAuthToken(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3600, issued.ExpiresIn)
	assert.Regexp(t, `^[0-9a-f]{64}$`, issued.AccessToken)

	got, err := svc.VerifyOAuthToken(ctx, issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestVerifyOAuthToken_Expired(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	// Plant a token whose expiry has already passed.
	expired := &store.OAuthToken{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		AccessToken: "deadbeef",
		ExpiresAt:   time.Now().Add(-time.Second),
	}
	require.NoError(t, s.CreateOAuthToken(ctx, expired))

	_, err = svc.VerifyOAuthToken(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyClientCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "a@b.com", "longenough")
	require.NoError(t, err)

	got, err := svc.VerifyClientCredentials(ctx, user.OAuthClientID, user.OAuthClientSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.VerifyClientCredentials(ctx, user.OAuthClientID, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestConcurrentSignup_SameEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := svc.CreateUser(ctx, "race@b.com", "longenough")
			errs <- err
		}()
	}

	var wins, losses int
	for i := 0; i < workers; i++ {
		if err := <-errs; err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, store.ErrEmailExists)
			losses++
		}
	}

	// The unique index serializes the race: exactly one insert wins.
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)
}
