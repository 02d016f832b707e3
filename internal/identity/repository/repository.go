package repository

import (
	"context"

	"github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
)

// Repository defines persistence for identities. Lookups return nil, nil when no row matches.
type Repository interface {
	GetByProviderID(ctx context.Context, provider domain.IdentityProvider, providerID string) (*domain.Identity, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Identity, error)
	Create(ctx context.Context, i *domain.Identity) error
}
