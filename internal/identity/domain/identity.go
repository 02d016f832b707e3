package domain

import "time"

// Identity links a user to a sign-in method. ProviderID is the E.164 number
// for phone identities and the Google subject for Google identities.
type Identity struct {
	ID         string
	UserID     string
	Provider   IdentityProvider
	ProviderID string
	CreatedAt  time.Time
}

type IdentityProvider string

const (
	IdentityProviderPhone  IdentityProvider = "phone"
	IdentityProviderGoogle IdentityProvider = "google"
)
