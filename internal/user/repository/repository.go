package repository

import (
	"context"

	"github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
)

// Repository defines persistence for users. Lookups return nil, nil when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// SetPhoneVerified marks the user's phone verified. No-op if already verified.
	SetPhoneVerified(ctx context.Context, userID string) error
}
