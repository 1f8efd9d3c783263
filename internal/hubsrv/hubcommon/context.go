// Package hubcommon holds context plumbing and constants shared by the
// hubsrv packages.
package hubcommon

import (
	"context"

	"github.com/mentorhub/mentorhub/internal/common/uuid"
)

type contextKey string

const userContextKey = contextKey("userContext")

// UserContext identifies the caller of a request. Authentication happens
// upstream; the server trusts the forwarded identity header.
type UserContext struct {
	UserID uuid.UUID
}

// WithUserContext returns a context carrying the caller identity.
func WithUserContext(ctx context.Context, u *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// GetUserContext returns the caller identity stored in the context, or nil.
func GetUserContext(ctx context.Context) *UserContext {
	if u, ok := ctx.Value(userContextKey).(*UserContext); ok {
		return u
	}
	return nil
}

// GetUserID returns the caller's user ID, or uuid.Nil when no identity is set.
func GetUserID(ctx context.Context) uuid.UUID {
	if u := GetUserContext(ctx); u != nil {
		return u.UserID
	}
	return uuid.Nil
}
