// ABOUTME: HTTP middleware for credential extraction on protocol endpoints
// ABOUTME: Checks custom header, then bearer token, then query parameter

package auth

import (
	"errors"
	"net/http"
	"strings"
)

// APIKeyHeader is the custom header MCP clients send their key in.
const APIKeyHeader = "X-Backpack-API-Key"

// APIKeyQueryParam is the query-string fallback for clients that cannot set
// headers.
const APIKeyQueryParam = "api_key"

// extractCredential pulls the bearer credential from a request.
// Priority: custom header, Authorization bearer, query parameter.
// fromBearer reports whether the Authorization header supplied it, since only
// bearer credentials may be OAuth access tokens rather than API keys.
func extractCredential(r *http.Request) (credential string, fromBearer bool) {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key, false
	}

	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != "" {
			return token, true
		}
	}

	return r.URL.Query().Get(APIKeyQueryParam), false
}

// RequireAPIKey creates an HTTP middleware that authenticates protocol
// requests. The resolved user is attached to the request context; requests
// with no credential or an unverifiable one get a 401 before any protocol
// processing happens. Bearer credentials that are not API keys are retried as
// OAuth access tokens so both credential kinds work on the same endpoints.
func RequireAPIKey(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, fromBearer := extractCredential(r)
			if credential == "" {
				unauthorized(w, "missing credentials")
				return
			}

			user, err := svc.VerifyAPIKey(r.Context(), credential)
			if err != nil && fromBearer && errors.Is(err, ErrInvalidCredentials) {
				user, err = svc.VerifyOAuthToken(r.Context(), credential)
			}
			if err != nil {
				unauthorized(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
