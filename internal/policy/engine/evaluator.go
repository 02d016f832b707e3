package engine

import (
	"context"

	devicedomain "github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
	userdomain "github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
)

// VerificationResult is the outcome of the phone verification policy.
type VerificationResult struct {
	// OTPRequired is false when the device may sign in without a code (auto-verification).
	OTPRequired bool
	// RegisterTrustAfterOTP marks the device trusted once an OTP is confirmed.
	RegisterTrustAfterOTP bool
	// TrustTTLDays is how long that trust lasts; 0 means no expiry.
	TrustTTLDays int
}

// VerificationInput is what the policy sees. User and Device are nil when the
// phone or the device is not known yet.
type VerificationInput struct {
	User   *userdomain.User
	Device *devicedomain.Device
}

// Evaluator decides whether a phone sign-in needs an OTP.
type Evaluator interface {
	EvaluateVerification(ctx context.Context, in VerificationInput) (VerificationResult, error)
}
