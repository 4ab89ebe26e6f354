// ABOUTME: Web app for account management: signup, login, dashboard, logout
// ABOUTME: Also serves the OAuth token endpoint and legacy protocol redirects

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/backpack/internal/auth"
	"github.com/2389/backpack/internal/store"
)

// Config holds web app configuration.
type Config struct {
	Auth *auth.Service

	// BaseURL overrides the externally visible URL used in connect
	// instructions. When empty it is derived from the request.
	BaseURL string

	// SessionMaxAge controls session cookie lifetime. Zero means the
	// default of 30 days.
	SessionMaxAge time.Duration

	Logger *slog.Logger
}

// App handles the browser-facing routes.
type App struct {
	auth          *auth.Service
	baseURL       string
	sessionMaxAge time.Duration
	logger        *slog.Logger
}

// New creates the web app.
func New(cfg Config) (*App, error) {
	if cfg.Auth == nil {
		return nil, errors.New("auth service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = auth.DefaultSessionMaxAge
	}

	return &App{
		auth:          cfg.Auth,
		baseURL:       cfg.BaseURL,
		sessionMaxAge: maxAge,
		logger:        logger.With("component", "web"),
	}, nil
}

// RegisterRoutes registers the web routes on the given mux. The bare "/"
// pattern doubles as the 404 fallback for unmatched paths.
func (a *App) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleLanding)
	mux.HandleFunc("GET /signup", a.handleSignupPage)
	mux.HandleFunc("POST /signup", a.handleSignup)
	mux.HandleFunc("GET /login", a.handleLoginPage)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("GET /dashboard", a.handleDashboard)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.HandleFunc("POST /token", a.handleToken)
	mux.HandleFunc("GET /message", a.handleLegacyMessage)
	mux.HandleFunc("/", a.handleNotFound)

	a.logger.Info("web routes registered")
}

func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) {
	a.renderLanding(w)
}

func (a *App) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	a.renderSignup(w, http.StatusOK, "")
}

func (a *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		a.renderSignup(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if len(password) < 8 {
		a.renderSignup(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	// Pre-check gives a friendly message; the unique index is what
	// actually serializes concurrent signups.
	if _, err := a.auth.GetUserByEmail(r.Context(), email); err == nil {
		a.renderSignup(w, http.StatusBadRequest, "An account with this email already exists")
		return
	}

	user, err := a.auth.CreateUser(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			a.renderSignup(w, http.StatusBadRequest, "An account with this email already exists")
			return
		}
		a.logger.Error("signup failed", "email", email, "error", err)
		a.renderSignup(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	a.logger.Info("user signed up", "user_id", user.ID)
	a.setSession(w, user)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	a.renderLogin(w, http.StatusOK, "")
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		a.renderLogin(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := a.auth.AuthenticateUser(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			a.renderLogin(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		a.logger.Error("login failed", "email", email, "error", err)
		a.renderLogin(w, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	a.setSession(w, user)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	token := auth.SessionFromCookie(r.Header.Get("Cookie"))
	if token == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := a.auth.VerifyAPIKey(r.Context(), token)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	a.renderDashboard(w, user.Email, user.APIKey, a.mcpURL(r))
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Set-Cookie", auth.ClearSessionCookie())
	http.Redirect(w, r, "/", http.StatusFound)
}

// tokenResponse is the OAuth client_credentials grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (a *App) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("grant_type") != "client_credentials" {
		writeJSONError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	clientID := r.FormValue("client_id")
	clientSecret := r.FormValue("client_secret")
	if clientID == "" || clientSecret == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	user, err := a.auth.VerifyClientCredentials(r.Context(), clientID, clientSecret)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSONError(w, http.StatusUnauthorized, "invalid_client")
			return
		}
		a.logger.Error("token grant failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error")
		return
	}

	issued, err := a.auth.CreateOAuthToken(r.Context(), user.ID)
	if err != nil {
		a.logger.Error("token issue failed", "user_id", user.ID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "server_error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tokenResponse{
		AccessToken: issued.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   issued.ExpiresIn,
	})
}

// handleLegacyMessage preserves the original /message alias.
func (a *App) handleLegacyMessage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/sse/message", http.StatusFound)
}

func (a *App) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}

// setSession writes the session cookie. The cookie carries the API key
// itself, so dashboard access verifies against the same credential the
// protocol uses.
func (a *App) setSession(w http.ResponseWriter, user *store.User) {
	w.Header().Set("Set-Cookie", auth.CreateSessionCookie(user.APIKey, a.sessionMaxAge))
}

// mcpURL builds the endpoint URL shown in connect instructions.
func (a *App) mcpURL(r *http.Request) string {
	base := a.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/mcp"
}

func writeJSONError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
