package repository

import (
	"context"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/domain"
)

// Repository defines persistence for phone challenges.
type Repository interface {
	Create(ctx context.Context, c *domain.Challenge) error
	// GetByID returns the challenge, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Challenge, error)
	// ReserveAttempt atomically increments the attempt counter when it is below
	// limit and returns the updated challenge. It returns nil when the challenge
	// is missing or already has limit attempts.
	ReserveAttempt(ctx context.Context, id string, limit int) (*domain.Challenge, error)
	// Consume deletes the challenge and reports whether this call removed it.
	// Only one of several concurrent callers gets true.
	Consume(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes challenges that expired before now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
