package domain

import "time"

// Device is an installation of the app that a user has signed in from.
type Device struct {
	ID           string
	UserID       string
	Fingerprint  string
	Trusted      bool
	TrustedUntil *time.Time // nil means trusted without expiry
	RevokedAt    *time.Time // set when trust was revoked
	// TrustTokenHash is the digest of the token issued to the device when it
	// was trusted. Auto-verification requires the device to present that token.
	TrustTokenHash string
	LastSeenAt     *time.Time
	CreatedAt      time.Time
}

// IsEffectivelyTrusted reports whether the device is trusted at now: flagged
// trusted, not revoked and, when TrustedUntil is set, not yet past it.
func (d *Device) IsEffectivelyTrusted(now time.Time) bool {
	if d == nil || !d.Trusted || d.RevokedAt != nil {
		return false
	}
	if d.TrustedUntil != nil && !now.Before(*d.TrustedUntil) {
		return false
	}
	return true
}
