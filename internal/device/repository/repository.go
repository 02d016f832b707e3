package repository

import (
	"context"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
)

// Repository defines persistence for devices. Lookups return nil, nil when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*domain.Device, error)
	Create(ctx context.Context, d *domain.Device) error
	// UpdateTrusted sets the trust flag, expiry and token digest and clears any revocation.
	UpdateTrusted(ctx context.Context, id string, trusted bool, until *time.Time, tokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}
