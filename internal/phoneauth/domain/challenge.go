package domain

import "time"

// Challenge is one pending phone verification (phone_challenges table). Its ID
// is the verification handle given to the app.
type Challenge struct {
	ID                string
	Phone             string
	DeviceFingerprint string
	CodeHash          string
	Attempts          int
	ExpiresAt         time.Time
	CreatedAt         time.Time
}

// Expired reports whether the challenge can no longer be confirmed at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
