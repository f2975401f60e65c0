package auth

import "context"

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the authenticated user in the given context. The stored
// value is the public projection; the password hash never travels with a
// request.
func WithContext(ctx context.Context, user *PublicUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// FromContext finds the authenticated user from the context.
func FromContext(ctx context.Context) (*PublicUser, bool) {
	raw, ok := ctx.Value(userCtxKey).(*PublicUser)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context.
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the AuthClaims from the context.
func ClaimsFromContext(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}
