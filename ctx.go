package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is the fiber locals key the bearer middleware uses
const DefaultContextKey = "identity"

var userCtxKey = &contextKey{"user"}
var resolverCtxKey = &contextKey{"resolver"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithResolverContext sets the IdentityResolver in the given context
func WithResolverContext(r context.Context, resolver *IdentityResolver) context.Context {
	return context.WithValue(r, resolverCtxKey, resolver)
}

// ResolverFromContext finds the IdentityResolver in the context
func ResolverFromContext(ctx context.Context) (*IdentityResolver, bool) {
	raw, ok := ctx.Value(resolverCtxKey).(*IdentityResolver)
	return raw, ok && raw != nil
}

// GetResolver extracts the IdentityResolver from fiber locals
func GetResolver(c *fiber.Ctx, key string) (*IdentityResolver, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw, ok := c.Locals(key).(*IdentityResolver)
	return raw, ok && raw != nil
}

// CurrentUser resolves the request user, preferring fiber locals and falling
// back to the user context.
func CurrentUser(c *fiber.Ctx, key string) (*User, error) {
	resolver, ok := GetResolver(c, key)
	if !ok {
		resolver, ok = ResolverFromContext(c.UserContext())
	}
	if !ok {
		return nil, ErrDecode
	}
	return resolver.CurrentUser(c.UserContext())
}
