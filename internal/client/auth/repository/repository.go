// Package repository is the app-side bridge to the identity service: it starts
// and confirms phone OTP challenges, exchanges Google ID tokens for a session,
// and answers "who is signed in" from the persisted session.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Snehil208001/Gr-nZimmer/internal/config"
	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth"
)

var (
	// ErrHostNotFound is returned by SendOTP when no UI host is attached to run the challenge.
	ErrHostNotFound = errors.New("host not found")
	// ErrVerificationMissing is returned by VerifyOTP without a pending verification from SendOTP.
	ErrVerificationMissing = errors.New("verification ID missing")
	// ErrPhoneAuthUnsupported is returned by the phone operations of FederatedOnlyRepository.
	ErrPhoneAuthUnsupported = errors.New("phone auth is not supported on this platform")
	// ErrMissingIDToken is returned by SignInWithGoogle for an empty token.
	ErrMissingIDToken = errors.New("google ID token is required")
	// ErrNotSignedIn is returned by Profile and SignOut when no session is stored.
	ErrNotSignedIn = errors.New("not signed in")

	ErrInvalidPhone = phoneauth.ErrInvalidPhone
	ErrInvalidCode  = phoneauth.ErrInvalidCode
)

// Repository is implemented once per platform; Select picks one at process start.
type Repository interface {
	// SendOTP starts a challenge for phone and returns its handle. When the
	// service auto-verifies the device the user is signed in immediately and the
	// handle reports AutoVerified.
	SendOTP(ctx context.Context, phone string) (PendingVerification, error)
	// VerifyOTP confirms the challenge behind pending with code and stores the session.
	VerifyOTP(ctx context.Context, pending PendingVerification, code string) error
	// SignInWithGoogle exchanges a Google ID token for a session.
	SignInWithGoogle(ctx context.Context, idToken string) error
	// IsUserLoggedIn reports whether a session is stored. No network call.
	IsUserLoggedIn() bool
	// UserID returns the signed-in user. No network call.
	UserID() (string, bool)
	// Profile fetches the signed-in user from the service, refreshing the access token if needed.
	Profile(ctx context.Context) (Profile, error)
	// SignOut revokes the session on the service and forgets it locally.
	SignOut(ctx context.Context) error
}

// PendingVerification is the handle of one OTP challenge. Only this package can
// read the verification id; the zero value means no challenge was started.
type PendingVerification struct {
	id           string
	expiresAt    time.Time
	autoVerified bool
}

// IsZero reports whether p carries no challenge.
func (p PendingVerification) IsZero() bool {
	return p.id == "" && !p.autoVerified
}

// ExpiresAt is when the service stops accepting codes for the challenge.
func (p PendingVerification) ExpiresAt() time.Time {
	return p.expiresAt
}

// AutoVerified reports whether the service signed the user in without a code.
func (p PendingVerification) AutoVerified() bool {
	return p.autoVerified
}

// Profile describes the signed-in user.
type Profile struct {
	UserID        string
	Phone         string
	PhoneVerified bool
	Email         string
	Name          string
}

// HostProvider reports whether a UI host (the foreground screen, or a terminal
// for authcli) is attached that can run a phone challenge.
type HostProvider interface {
	HostAvailable() bool
}

// HostFunc adapts a function to HostProvider.
type HostFunc func() bool

func (f HostFunc) HostAvailable() bool { return f() }

// ServiceError is a failure reported by the identity service. Error returns the
// service's message so it can be shown to the user as is.
type ServiceError struct {
	Code    codes.Code
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// serviceErr converts a gRPC status into a ServiceError; other errors pass through.
func serviceErr(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return &ServiceError{Code: st.Code(), Message: st.Message()}
	}
	return err
}

// recoverErr turns a panic in a repository call into an error.
func recoverErr(op string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", op, r)
	}
}

// Select returns the repository variant for platform (config.PlatformAndroid or config.PlatformIOS).
func Select(platform string, client Client, sessions SessionStore, host HostProvider, opts Options) (Repository, error) {
	switch platform {
	case config.PlatformAndroid:
		return NewGRPCRepository(client, sessions, host, opts), nil
	case config.PlatformIOS:
		return NewFederatedOnlyRepository(client, sessions, opts), nil
	default:
		return nil, fmt.Errorf("repository: unknown platform %q", platform)
	}
}
