package auth

import "context"

// --- Context Keys ---

// contextKey is a custom type used for context keys to avoid collisions.
type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying the verified identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the verified identity from the request
// context. Returns the identity and true if found, otherwise nil and false.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil
}
