package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// Identity is the authenticated company attached to a request.
type Identity struct {
	ID   uuid.UUID
	Name string
	Role models.Role
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the request identity, or nil when the
// request is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}
