package repository

import (
	"context"
	"time"

	"github.com/Snehil208001/Gr-nZimmer/internal/session/domain"
)

// Repository defines persistence for sessions. GetByID returns nil, nil when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
	// UpdateRefreshToken rotates the session's refresh binding.
	UpdateRefreshToken(ctx context.Context, id, jti, refreshTokenHash string) error
}
