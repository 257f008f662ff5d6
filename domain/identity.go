package domain

import "context"

// Identity is the authenticated caller of a request.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	SessionID   string `json:"-"`
}

type identityKey struct{}

// ContextWithIdentity attaches the caller identity to ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}
	return id, true
}

// Overview is the greeting and progress summary shown to the current user.
type Overview struct {
	User        Identity `json:"user"`
	Collections int      `json:"collections"`
	Progress    Progress `json:"progress"`
}
