package token

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithClaims adds customer claims to the context.
func WithClaims(ctx context.Context, claims *CustomerClaims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext retrieves the customer claims from the context.
func ClaimsFromContext(ctx context.Context) (*CustomerClaims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*CustomerClaims)
	return claims, ok
}

// MustClaimsFromContext retrieves the customer claims and panics if none
// are present. Use only in handlers mounted behind RequireCustomer.
func MustClaimsFromContext(ctx context.Context) *CustomerClaims {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims == nil {
		panic("token: no customer claims in context")
	}
	return claims
}
