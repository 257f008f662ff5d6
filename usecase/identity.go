package usecase

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// IdentityProvider resolves the authenticated caller of the current request.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (domain.Identity, bool)
}

// ContextIdentity reads the caller that the auth middleware stored in the request context.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (domain.Identity, bool) {
	return domain.IdentityFromContext(ctx)
}

// RequireUser returns the caller or ErrUnauthenticated.
func RequireUser(ctx context.Context, provider IdentityProvider) (domain.Identity, error) {
	if provider == nil {
		provider = ContextIdentity{}
	}
	id, ok := provider.CurrentUser(ctx)
	if !ok || id.ID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
