package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrCodeMismatch is returned by Compare when the code does not match the stored hash.
var ErrCodeMismatch = errors.New("code does not match")

// Hasher hashes one-time codes with bcrypt so challenge rows never hold the plaintext OTP.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given bcrypt cost, clamped to bcrypt's allowed range.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	cost = max(cost, bcrypt.MinCost)
	cost = min(cost, bcrypt.MaxCost)
	return &Hasher{Cost: cost}
}

// Hash returns the bcrypt hash of code.
func (h *Hasher) Hash(code string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns nil when code matches hash, ErrCodeMismatch when it does not,
// and the bcrypt error for a malformed hash.
func (h *Hasher) Compare(hash, code string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCodeMismatch
	}
	return err
}
