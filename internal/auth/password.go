// ABOUTME: Password hashing schemes for account credentials
// ABOUTME: Legacy unsalted SHA-256 (compatible with existing rows) and bcrypt

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password scheme names accepted in configuration.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	// Scheme returns the configuration name of this hasher.
	Scheme() string
	// Hash returns the stored form of a password.
	Hash(password string) (string, error)
	// Compare reports whether the password matches the stored hash.
	Compare(hash, password string) bool
}

// NewHasher returns the hasher for a configured scheme name.
// An empty scheme selects sha256 for compatibility with existing rows.
func NewHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "", SchemeSHA256:
		return sha256Hasher{}, nil
	case SchemeBcrypt:
		return bcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// sha256Hasher is the legacy scheme: hex-encoded SHA-256 of the UTF-8 password,
// no salt. Deterministic, which lets authentication use a single (email, hash)
// lookup. A real security boundary wants bcrypt; this exists for row-level
// compatibility with databases created by earlier deployments.
type sha256Hasher struct{}

func (sha256Hasher) Scheme() string { return SchemeSHA256 }

func (sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h sha256Hasher) Compare(hash, password string) bool {
	computed, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// bcryptHasher is the strengthened scheme.
type bcryptHasher struct{}

func (bcryptHasher) Scheme() string { return SchemeBcrypt }

func (bcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(out), nil
}

func (bcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
