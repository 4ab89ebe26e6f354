// ABOUTME: Request-scoped identity for tracking the authenticated user
// ABOUTME: Provides WithUser/UserFromContext for propagation via context

package auth

import (
	"context"

	"github.com/2389/backpack/internal/store"
)

// userContextKey is the key type for storing the authenticated user in context.
type userContextKey struct{}

// WithUser returns a new context with the authenticated user attached.
// Identity always travels on the request context, never on shared state, so
// concurrent requests cannot observe each other's user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user, returning nil if absent.
func UserFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey{}).(*store.User)
	return user
}
