package auth

import (
	"context"

	"warbler/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser returns a child context carrying the authenticated user.
// The session middleware calls this once per request; handlers never
// touch ambient state to learn who is acting.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user carried by the context,
// or nil for an anonymous request.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
