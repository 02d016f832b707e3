package domain

import "time"

// Session is a signed-in session of a user on a device. RefreshJti and
// RefreshTokenHash identify the one refresh token currently valid for it.
type Session struct {
	ID               string
	UserID           string
	DeviceID         string
	ExpiresAt        time.Time
	RevokedAt        *time.Time
	LastSeenAt       *time.Time
	RefreshJti       string
	RefreshTokenHash string
	CreatedAt        time.Time
}

// Active reports whether the session is neither revoked nor expired at now.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
