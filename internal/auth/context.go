package auth

import "context"

type identityKey struct{}

// WithIdentity stores the resolved identity on the request context.
// It is set once, at the start of the request, and read-only after that.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity resolved for this request, or nil for
// an anonymous request.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
