// ABOUTME: Account and credential service: signup, login, API key and OAuth
// ABOUTME: token issuance/verification backed by the store

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/2389/backpack/internal/store"
)

// ErrInvalidCredentials is returned when a credential does not resolve to a
// user: wrong password, unknown email, unissued or expired token. Callers that
// need the legacy collapsed behavior treat any error as "absent"; the
// distinguishing cause is still logged here for observability.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DefaultTokenTTL is the lifetime of issued OAuth access tokens.
const DefaultTokenTTL = time.Hour

// IssuedToken is the result of an OAuth token grant.
type IssuedToken struct {
	AccessToken string
	ExpiresIn   int // seconds
}

// Config holds dependencies for the auth service.
type Config struct {
	Store    store.Store
	Hasher   PasswordHasher
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// Service implements account creation and every credential verification path.
type Service struct {
	store    store.Store
	hasher   PasswordHasher
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService creates the auth service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher, _ = NewHasher(SchemeSHA256)
	}

	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    cfg.Store,
		hasher:   hasher,
		tokenTTL: ttl,
		logger:   logger.With("component", "auth"),
	}, nil
}

// TokenTTL returns the configured OAuth access token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

// CreateUser registers a new account: hashes the password, generates the API
// key and OAuth client credential pair, and inserts everything in one row.
// Returns store.ErrEmailExists if the email is taken; callers should pre-check
// with GetUserByEmail for a friendly error, but the insert is the real
// serialization point for racing signups.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*store.User, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	apiKey, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	clientID, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	clientSecret, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Email:             email,
		PasswordHash:      passwordHash,
		APIKey:            apiKey,
		OAuthClientID:     clientID,
		OAuthClientSecret: clientSecret,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		s.logger.Warn("creating user failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "id", user.ID, "email", user.Email)
	return user, nil
}

// AuthenticateUser checks an email/password pair.
// Under the sha256 scheme this is a single (email, hash) lookup, matching the
// legacy behavior exactly; under bcrypt the user is fetched by email and the
// hash compared in process.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*store.User, error) {
	if s.hasher.Scheme() == SchemeSHA256 {
		digest, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user, err := s.store.GetUserByLogin(ctx, email, digest)
		if err != nil {
			return nil, s.credentialError("login", email, err)
		}
		return user, nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, s.credentialError("login", email, err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyAPIKey resolves an API key to its owning user.
func (s *Service) VerifyAPIKey(ctx context.Context, apiKey string) (*store.User, error) {
	user, err := s.store.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, s.credentialError("api_key", "", err)
	}
	return user, nil
}

// GetUserByEmail reports whether an account exists for the email.
// Used by signup to reject duplicates before attempting the insert.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, s.credentialError("email", email, err)
	}
	return user, nil
}

// CreateOAuthToken issues a fresh access token for the user.
func (s *Service) CreateOAuthToken(ctx context.Context, userID int64) (*IssuedToken, error) {
	accessToken, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &store.OAuthToken{
		ID:          uuid.New().String(),
		UserID:      userID,
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(s.tokenTTL),
	}
	if err := s.store.CreateOAuthToken(ctx, token); err != nil {
		s.logger.Warn("storing oauth token failed", "user_id", userID, "error", err)
		return nil, err
	}

	s.logger.Info("oauth token issued", "user_id", userID, "ttl", s.tokenTTL)
	return &IssuedToken{
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}

// VerifyOAuthToken resolves an access token to its user. Expired tokens are
// indistinguishable from unissued ones.
func (s *Service) VerifyOAuthToken(ctx context.Context, accessToken string) (*store.User, error) {
	user, err := s.store.GetUserByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, s.credentialError("oauth_token", "", err)
	}
	return user, nil
}

// VerifyClientCredentials checks an OAuth client id/secret pair.
func (s *Service) VerifyClientCredentials(ctx context.Context, clientID, clientSecret string) (*store.User, error) {
	user, err := s.store.GetUserByClientCredentials(ctx, clientID, clientSecret)
	if err != nil {
		return nil, s.credentialError("client_credentials", clientID, err)
	}
	return user, nil
}

// credentialError maps a store lookup failure to ErrInvalidCredentials, logging
// storage failures so the collapsed result stays observable.
func (s *Service) credentialError(kind, subject string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCredentials
	}
	s.logger.Error("credential lookup failed", "kind", kind, "subject", subject, "error", err)
	return fmt.Errorf("verifying %s: %w", kind, err)
}
