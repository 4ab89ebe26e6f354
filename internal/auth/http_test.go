// ABOUTME: Tests for the protocol credential middleware
// ABOUTME: Covers extraction priority, OAuth fallback, and 401 responses

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/backpack/internal/store"
)

func newMiddlewareFixture(t *testing.T) (*Service, *store.User, http.Handler) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "mw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	svc, err := NewService(Config{Store: s})
	require.NoError(t, err)

	user, err := svc.CreateUser(context.Background(), "a@b.com", "longenough")
	require.NoError(t, err)

	handler := RequireAPIKey(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := UserFromContext(r.Context())
		require.NotNil(t, got)
		w.Write([]byte(got.Email))
	}))

	return svc, user, handler
}

func TestRequireAPIKey_CustomHeader(t *testing.T) {
	_, user, handler := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(APIKeyHeader, user.APIKey)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "a@b.com", rr.Body.String())
}

func TestRequireAPIKey_BearerToken(t *testing.T) {
	_, user, handler := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+user.APIKey)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAPIKey_QueryParam(t *testing.T) {
	_, user, handler := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp?api_key="+user.APIKey, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAPIKey_HeaderBeatsQuery(t *testing.T) {
	_, user, handler := newMiddlewareFixture(t)

	// Bad query param should be ignored when the header carries a good key.
	req := httptest.NewRequest(http.MethodPost, "/mcp?api_key=bogus", nil)
	req.Header.Set(APIKeyHeader, user.APIKey)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAPIKey_OAuthTokenFallback(t *testing.T) {
	svc, user, handler := newMiddlewareFixture(t)

	issued, err := svc.CreateOAuthToken(context.Background(), user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+issued.AccessToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAPIKey_MissingCredential(t *testing.T) {
	_, _, handler := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing credentials")
}

func TestRequireAPIKey_InvalidCredential(t *testing.T) {
	_, _, handler := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(APIKeyHeader, "not-a-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid credentials")
}
