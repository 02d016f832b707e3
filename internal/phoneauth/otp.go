// Package phoneauth holds the phone number and one-time code rules shared by
// the identity service and the app-side repository.
package phoneauth

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

var (
	// ErrInvalidPhone is returned for numbers that are not E.164 after normalization.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrInvalidCode is returned for codes that are not exactly CodeLength digits.
	ErrInvalidCode = errors.New("invalid verification code")
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// GenerateOTP returns a uniformly random 6-digit code from crypto/rand.
func GenerateOTP() (string, error) {
	b := make([]byte, CodeLength)
	ten := big.NewInt(10)
	for i := range b {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}

// NormalizePhone strips spaces, dashes, dots and parentheses and checks the
// result is an E.164 number such as +4915112345678.
func NormalizePhone(phone string) (string, error) {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if !e164.MatchString(out) {
		return "", ErrInvalidPhone
	}
	return out, nil
}

// ValidateCode trims the code and checks it is exactly CodeLength ASCII digits.
func ValidateCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength {
		return "", ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}

// MaskPhone keeps the country prefix and the last two digits, for logs and audit rows.
func MaskPhone(phone string) string {
	if len(phone) <= 5 {
		return "***"
	}
	return phone[:3] + strings.Repeat("*", len(phone)-5) + phone[len(phone)-2:]
}
