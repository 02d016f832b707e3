package domain

import (
	"errors"
	"time"
)

// User is a GrünZimmer customer. A user signs in with a phone number, a Google
// account, or both; at least one of Phone or Email is set.
type User struct {
	ID            string
	Phone         string // E.164; empty for Google-only accounts
	PhoneVerified bool   // true once an OTP for Phone was confirmed
	Email         string // from the Google ID token; may be empty
	Name          string
	Status        UserStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence and defaults Status to active.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Phone == "" && u.Email == "" {
		return errors.New("phone or email is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// Active reports whether the user may sign in.
func (u *User) Active() bool {
	return u.Status != UserStatusDisabled
}
