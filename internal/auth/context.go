package auth

import "context"

type contextKey struct{}

// Identity carries the owner of the data a request may touch. Owners are
// opaque UUID strings handed out by the client; every store query is scoped
// by one.
type Identity struct {
	OwnerID string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// OwnerID returns the request's owner ID, or "" when unauthenticated.
func OwnerID(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return id.OwnerID
}
