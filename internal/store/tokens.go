// ABOUTME: OAuth access token persistence on SQLiteStore
// ABOUTME: Tokens are insert-only; expiry is enforced in the lookup query

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateOAuthToken stores a freshly issued access token.
func (s *SQLiteStore) CreateOAuthToken(ctx context.Context, token *OAuthToken) error {
	query := `
		INSERT INTO oauth_tokens (id, user_id, access_token, expires_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.AccessToken,
		token.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateCredential
		}
		return fmt.Errorf("inserting oauth token: %w", err)
	}

	s.logger.Debug("created oauth token", "id", token.ID, "user_id", token.UserID, "expires_at", token.ExpiresAt)
	return nil
}

// GetUserByAccessToken resolves an access token to its owning user.
// Expired tokens are rejected by the query itself, so callers never see them.
func (s *SQLiteStore) GetUserByAccessToken(ctx context.Context, accessToken string) (*User, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.api_key, u.oauth_client_id, u.oauth_client_secret, u.created_at
		FROM oauth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.access_token = ? AND t.expires_at > ?
	`, accessToken, now)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

// DeleteExpiredOAuthTokens removes tokens past their expiry.
// Called periodically from the server loop; losing the sweep only costs disk space,
// never correctness, since lookups check expiry themselves.
func (s *SQLiteStore) DeleteExpiredOAuthTokens(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `DELETE FROM oauth_tokens WHERE expires_at <= ?`, now)
	if err != nil {
		return fmt.Errorf("deleting expired oauth tokens: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		s.logger.Debug("deleted expired oauth tokens", "count", rowsAffected)
	}
	return nil
}
