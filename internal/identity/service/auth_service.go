package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Snehil208001/Gr-nZimmer/internal/audit"
	auditdomain "github.com/Snehil208001/Gr-nZimmer/internal/audit/domain"
	devicedomain "github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/devotp"
	"github.com/Snehil208001/Gr-nZimmer/internal/federated"
	identitydomain "github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth"
	phonedomain "github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/domain"
	policyengine "github.com/Snehil208001/Gr-nZimmer/internal/policy/engine"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
	"github.com/Snehil208001/Gr-nZimmer/internal/server/interceptors"
	sessiondomain "github.com/Snehil208001/Gr-nZimmer/internal/session/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry"
	telemetrydomain "github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
	userdomain "github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
)

// Sentinel errors for auth service; handler maps them to gRPC codes.
var (
	ErrInvalidPhone        = phoneauth.ErrInvalidPhone
	ErrInvalidOTP          = errors.New("invalid OTP")
	ErrChallengeNotFound   = errors.New("verification not found")
	ErrChallengeExpired    = errors.New("verification code expired")
	ErrTooManyAttempts     = errors.New("too many attempts; request a new code")
	ErrOTPDelivery         = errors.New("failed to send OTP")
	ErrGoogleNotConfigured = errors.New("Google sign-in is not configured")
	ErrInvalidIDToken      = errors.New("invalid Google ID token")
	ErrGoogleUnavailable   = errors.New("Google sign-in keys unavailable")
	ErrUserDisabled        = errors.New("user is disabled")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenReuse   = errors.New("refresh token reuse detected; all sessions revoked")
)

// fallbackFingerprint is used when the app sends no device fingerprint.
// Such devices are never trusted for auto-verification.
const fallbackFingerprint = "unknown-device"

// AuthResult holds the tokens of a signed-in session.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	SessionID    string
	NewUser      bool
	// DeviceToken is set when the device became trusted during this sign-in.
	// The device must present it to skip the OTP next time.
	DeviceToken string
}

// VerificationResult is the outcome of StartPhoneVerification. Either
// VerificationID is set (an OTP was sent) or Tokens is set (the device was
// auto-verified and no code is needed).
type VerificationResult struct {
	VerificationID string
	ExpiresAt      time.Time
	Tokens         *AuthResult
}

// AutoVerified reports whether the phone was verified without an OTP.
func (r *VerificationResult) AutoVerified() bool {
	return r != nil && r.Tokens != nil
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByPhone(ctx context.Context, phone string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	SetPhoneVerified(ctx context.Context, userID string) error
}

// IdentityRepo is the minimal identity repository needed by the auth service.
type IdentityRepo interface {
	GetByProviderID(ctx context.Context, provider identitydomain.IdentityProvider, providerID string) (*identitydomain.Identity, error)
	Create(ctx context.Context, i *identitydomain.Identity) error
}

// SessionRepo is the minimal session repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Revoke(ctx context.Context, id string) error
	RevokeAllByUser(ctx context.Context, userID string) error
	UpdateRefreshToken(ctx context.Context, id, jti, refreshTokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// DeviceRepo is the minimal device repository needed by the auth service.
type DeviceRepo interface {
	GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*devicedomain.Device, error)
	Create(ctx context.Context, d *devicedomain.Device) error
	UpdateTrusted(ctx context.Context, id string, trusted bool, until *time.Time, tokenHash string) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// ChallengeRepo is the minimal phone challenge repository needed by the auth service.
type ChallengeRepo interface {
	Create(ctx context.Context, c *phonedomain.Challenge) error
	GetByID(ctx context.Context, id string) (*phonedomain.Challenge, error)
	ReserveAttempt(ctx context.Context, id string, limit int) (*phonedomain.Challenge, error)
	Consume(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OTPSender delivers a one-time code to a phone number.
type OTPSender interface {
	SendOTP(ctx context.Context, phone, otp string) error
}

// GoogleVerifier verifies Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*federated.GoogleIdentity, error)
}

// Config holds the tunables of the auth service.
type Config struct {
	RefreshTTL          time.Duration
	ChallengeTTL        time.Duration
	MaxAttempts         int
	DefaultTrustTTLDays int
	// OTPReturnToClient skips SMS and keeps the OTP in the dev OTP store.
	OTPReturnToClient bool
}

// AuthService implements phone OTP sign-in, Google sign-in, refresh, and logout.
type AuthService struct {
	userRepo        UserRepo
	identityRepo    IdentityRepo
	sessionRepo     SessionRepo
	deviceRepo      DeviceRepo
	challengeRepo   ChallengeRepo
	policyEvaluator policyengine.Evaluator
	smsSender       OTPSender
	googleVerifier  GoogleVerifier
	hasher          *security.Hasher
	tokens          *security.TokenProvider
	devOTPStore     devotp.Store
	auditLogger     audit.AuditLogger
	events          telemetry.EventEmitter
	cfg             Config
	now             func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
// smsSender may be nil in dev OTP mode; googleVerifier may be nil when Google
// sign-in is not configured; devOTPStore and auditLogger may be nil.
func NewAuthService(
	userRepo UserRepo,
	identityRepo IdentityRepo,
	sessionRepo SessionRepo,
	deviceRepo DeviceRepo,
	challengeRepo ChallengeRepo,
	policyEvaluator policyengine.Evaluator,
	smsSender OTPSender,
	googleVerifier GoogleVerifier,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	devOTPStore devotp.Store,
	auditLogger audit.AuditLogger,
	cfg Config,
) *AuthService {
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = 60 * time.Second
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 720 * time.Hour
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &AuthService{
		userRepo:        userRepo,
		identityRepo:    identityRepo,
		sessionRepo:     sessionRepo,
		deviceRepo:      deviceRepo,
		challengeRepo:   challengeRepo,
		policyEvaluator: policyEvaluator,
		smsSender:       smsSender,
		googleVerifier:  googleVerifier,
		hasher:          hasher,
		tokens:          tokens,
		devOTPStore:     devOTPStore,
		auditLogger:     auditLogger,
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// SetEventEmitter sets the telemetry sink for auth events. nil disables emission.
func (s *AuthService) SetEventEmitter(e telemetry.EventEmitter) {
	s.events = e
}

// StartPhoneVerification starts a phone sign-in. When the device presents the
// trust token issued to it and the policy trusts the device for the phone's
// user, the session is issued at once; otherwise an OTP is sent and the
// challenge id is returned. The fingerprint alone never skips the OTP.
func (s *AuthService) StartPhoneVerification(ctx context.Context, phone, deviceFingerprint, deviceToken string) (*VerificationResult, error) {
	phone, err := phoneauth.NormalizePhone(phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}
	fp := strings.TrimSpace(deviceFingerprint)

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user != nil && !user.Active() {
		return nil, ErrUserDisabled
	}
	var dev *devicedomain.Device
	if user != nil && fp != "" {
		dev, err = s.deviceRepo.GetByUserAndFingerprint(ctx, user.ID, fp)
		if err != nil {
			return nil, err
		}
		if dev != nil && !security.DeviceTokenMatches(deviceToken, dev.TrustTokenHash) {
			dev = nil
		}
	}

	decision := s.evaluate(ctx, user, dev)
	if !decision.OTPRequired && user != nil && dev != nil {
		now := s.now()
		if err := s.deviceRepo.UpdateLastSeen(ctx, dev.ID, now); err != nil {
			log.Printf("auth: update device last seen: %v", err)
		}
		res, err := s.issueSession(ctx, user.ID, dev.ID, false)
		if err != nil {
			return nil, err
		}
		s.logAudit(ctx, user.ID, auditdomain.ActionAutoVerified, phoneauth.MaskPhone(phone))
		s.emit(user.ID, dev.ID, res.SessionID, telemetrydomain.EventAutoVerified, nil)
		return &VerificationResult{Tokens: res}, nil
	}

	otp, err := phoneauth.GenerateOTP()
	if err != nil {
		return nil, err
	}
	codeHash, err := s.hasher.Hash(otp)
	if err != nil {
		return nil, err
	}
	now := s.now()
	ch := &phonedomain.Challenge{
		ID:                uuid.New().String(),
		Phone:             phone,
		DeviceFingerprint: fp,
		CodeHash:          codeHash,
		ExpiresAt:         now.Add(s.cfg.ChallengeTTL),
		CreatedAt:         now,
	}
	if err := s.challengeRepo.Create(ctx, ch); err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, ch, otp); err != nil {
		s.discard(ctx, ch.ID)
		log.Printf("auth: otp delivery to %s failed: %v", phoneauth.MaskPhone(phone), err)
		return nil, ErrOTPDelivery
	}
	var userID string
	if user != nil {
		userID = user.ID
	}
	s.logAudit(ctx, userID, auditdomain.ActionOTPSent, phoneauth.MaskPhone(phone))
	s.emit(userID, "", "", telemetrydomain.EventOTPSent, map[string]string{"phone": phoneauth.MaskPhone(phone)})
	return &VerificationResult{VerificationID: ch.ID, ExpiresAt: ch.ExpiresAt}, nil
}

// deliver sends the OTP by SMS, or parks it in the dev OTP store in dev mode.
func (s *AuthService) deliver(ctx context.Context, ch *phonedomain.Challenge, otp string) error {
	if s.cfg.OTPReturnToClient {
		if s.devOTPStore == nil {
			return errors.New("dev OTP store not configured")
		}
		s.devOTPStore.Put(ctx, ch.ID, otp, ch.ExpiresAt)
		return nil
	}
	if s.smsSender == nil {
		return errors.New("sms sender not configured")
	}
	return s.smsSender.SendOTP(ctx, ch.Phone, otp)
}

// ConfirmPhoneVerification checks code against the challenge and, on success,
// signs the phone's user in, creating the user on first sign-in.
// Every call reserves one of MaxAttempts before the code is compared, so
// concurrent guesses share the same budget. The challenge is consumed on
// success, on expiry and once the attempts are used up; only one caller can
// consume it successfully.
func (s *AuthService) ConfirmPhoneVerification(ctx context.Context, verificationID, code string) (*AuthResult, error) {
	verificationID = strings.TrimSpace(verificationID)
	if verificationID == "" {
		return nil, ErrChallengeNotFound
	}
	code, err := phoneauth.ValidateCode(code)
	if err != nil {
		return nil, ErrInvalidOTP
	}
	ch, err := s.challengeRepo.ReserveAttempt(ctx, verificationID, s.cfg.MaxAttempts)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		existing, err := s.challengeRepo.GetByID(ctx, verificationID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrChallengeNotFound
		}
		// Left for expiry so a verify already holding an attempt can still consume it.
		return nil, ErrTooManyAttempts
	}
	now := s.now()
	if ch.Expired(now) {
		s.discard(ctx, ch.ID)
		return nil, ErrChallengeExpired
	}
	if err := s.hasher.Compare(ch.CodeHash, code); err != nil {
		s.logAudit(ctx, "", auditdomain.ActionOTPFailed, phoneauth.MaskPhone(ch.Phone))
		s.emit("", "", "", telemetrydomain.EventOTPFailed, map[string]any{"attempts": ch.Attempts})
		if ch.Attempts >= s.cfg.MaxAttempts {
			s.discard(ctx, ch.ID)
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidOTP
	}
	consumed, err := s.challengeRepo.Consume(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrChallengeNotFound
	}
	if s.devOTPStore != nil {
		s.devOTPStore.Delete(ctx, ch.ID)
	}

	user, newUser, err := s.upsertPhoneUser(ctx, ch.Phone)
	if err != nil {
		return nil, err
	}
	dev, err := s.getOrCreateDevice(ctx, user.ID, ch.DeviceFingerprint)
	if err != nil {
		return nil, err
	}
	decision := s.evaluate(ctx, user, dev)
	var deviceToken string
	if decision.RegisterTrustAfterOTP && ch.DeviceFingerprint != "" {
		var until *time.Time
		if decision.TrustTTLDays > 0 {
			t := now.AddDate(0, 0, decision.TrustTTLDays)
			until = &t
		}
		token, tokenHash, err := security.NewDeviceToken()
		if err != nil {
			return nil, err
		}
		if err := s.deviceRepo.UpdateTrusted(ctx, dev.ID, true, until, tokenHash); err != nil {
			return nil, err
		}
		deviceToken = token
		s.logAudit(ctx, user.ID, auditdomain.ActionDeviceTrusted, dev.ID)
	}
	res, err := s.issueSession(ctx, user.ID, dev.ID, newUser)
	if err != nil {
		return nil, err
	}
	res.DeviceToken = deviceToken
	s.logAudit(ctx, user.ID, auditdomain.ActionLoginSuccess, "phone")
	s.emit(user.ID, dev.ID, res.SessionID, telemetrydomain.EventOTPVerified, nil)
	return res, nil
}

// discard removes a challenge that can no longer be verified.
func (s *AuthService) discard(ctx context.Context, challengeID string) {
	if err := s.challengeRepo.Delete(ctx, challengeID); err != nil {
		log.Printf("auth: delete challenge %s: %v", challengeID, err)
	}
	if s.devOTPStore != nil {
		s.devOTPStore.Delete(ctx, challengeID)
	}
}

// upsertPhoneUser returns the user owning phone, creating the user and the
// phone identity on first sign-in.
func (s *AuthService) upsertPhoneUser(ctx context.Context, phone string) (*userdomain.User, bool, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	newUser := false
	if user == nil {
		user = &userdomain.User{
			ID:            uuid.New().String(),
			Phone:         phone,
			PhoneVerified: true,
			Status:        userdomain.UserStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, false, err
		}
		newUser = true
	} else {
		if !user.Active() {
			return nil, false, ErrUserDisabled
		}
		if !user.PhoneVerified {
			if err := s.userRepo.SetPhoneVerified(ctx, user.ID); err != nil {
				return nil, false, err
			}
			user.PhoneVerified = true
		}
	}
	ident, err := s.identityRepo.GetByProviderID(ctx, identitydomain.IdentityProviderPhone, phone)
	if err != nil {
		return nil, false, err
	}
	if ident == nil {
		ident = &identitydomain.Identity{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			Provider:   identitydomain.IdentityProviderPhone,
			ProviderID: phone,
			CreatedAt:  now,
		}
		if err := s.identityRepo.Create(ctx, ident); err != nil {
			return nil, false, err
		}
	}
	return user, newUser, nil
}

// SignInWithGoogle verifies a Google ID token and signs its subject in,
// creating the user on first sign-in.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken, deviceFingerprint string) (*AuthResult, error) {
	if s.googleVerifier == nil {
		return nil, ErrGoogleNotConfigured
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrInvalidIDToken
	}
	gid, err := s.googleVerifier.Verify(ctx, idToken)
	if err != nil {
		s.logAudit(ctx, "", auditdomain.ActionLoginFailure, "google")
		s.emit("", "", "", telemetrydomain.EventGoogleSignInFail, nil)
		if errors.Is(err, federated.ErrInvalidIDToken) {
			return nil, ErrInvalidIDToken
		}
		if errors.Is(err, federated.ErrKeysUnavailable) {
			return nil, ErrGoogleUnavailable
		}
		return nil, fmt.Errorf("verify google id token: %w", err)
	}

	now := s.now()
	newUser := false
	var user *userdomain.User
	ident, err := s.identityRepo.GetByProviderID(ctx, identitydomain.IdentityProviderGoogle, gid.Subject)
	if err != nil {
		return nil, err
	}
	if ident != nil {
		user, err = s.userRepo.GetByID(ctx, ident.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("google identity %s has no user", ident.ID)
		}
	} else {
		user = &userdomain.User{
			ID:        uuid.New().String(),
			Email:     gid.Email,
			Name:      gid.Name,
			Status:    userdomain.UserStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if user.Email == "" {
			// Users need a phone or an email; the subject stands in for accounts without one.
			user.Email = gid.Subject + "@accounts.google.com"
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		ident = &identitydomain.Identity{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			Provider:   identitydomain.IdentityProviderGoogle,
			ProviderID: gid.Subject,
			CreatedAt:  now,
		}
		if err := s.identityRepo.Create(ctx, ident); err != nil {
			return nil, err
		}
		newUser = true
	}
	if !user.Active() {
		return nil, ErrUserDisabled
	}
	dev, err := s.getOrCreateDevice(ctx, user.ID, deviceFingerprint)
	if err != nil {
		return nil, err
	}
	res, err := s.issueSession(ctx, user.ID, dev.ID, newUser)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, user.ID, auditdomain.ActionLoginSuccess, "google")
	s.emit(user.ID, dev.ID, res.SessionID, telemetrydomain.EventGoogleSignIn, nil)
	return res, nil
}

// Refresh validates the refresh token, rotates it, and returns new tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	sessionID, jti, userID := claims.SessionID, claims.ID, claims.Subject
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if sess == nil || !sess.Active(now) || sess.UserID != userID {
		return nil, ErrInvalidRefreshToken
	}
	if sess.RefreshJti != jti {
		s.logAudit(ctx, userID, auditdomain.ActionRefreshReuse, sessionID)
		if err := s.sessionRepo.RevokeAllByUser(ctx, userID); err != nil {
			log.Printf("auth: revoke sessions of %s after refresh token reuse: %v", userID, err)
			return nil, fmt.Errorf("revoke sessions after refresh token reuse: %w", err)
		}
		return nil, ErrRefreshTokenReuse
	}
	if sess.RefreshTokenHash != "" && !security.RefreshTokenHashEqual(refreshToken, sess.RefreshTokenHash) {
		return nil, ErrInvalidRefreshToken
	}
	if err := s.sessionRepo.UpdateLastSeen(ctx, sessionID, now); err != nil {
		log.Printf("auth: update session last seen: %v", err)
	}
	newRefresh, err := s.tokens.IssueRefresh(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateRefreshToken(ctx, sessionID, newRefresh.JTI, security.HashRefreshToken(newRefresh.Token)); err != nil {
		return nil, err
	}
	access, err := s.tokens.IssueAccess(sessionID, userID)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, userID, auditdomain.ActionTokenRefreshed, sessionID)
	s.emit(userID, sess.DeviceID, sessionID, telemetrydomain.EventTokenRefreshed, nil)
	return &AuthResult{
		AccessToken:  access.Token,
		RefreshToken: newRefresh.Token,
		ExpiresAt:    access.ExpiresAt,
		UserID:       userID,
		SessionID:    sessionID,
	}, nil
}

// Logout revokes the session identified by the refresh token or by the access token in context.
// If refreshToken is non-empty, validates it and revokes that session.
// If refreshToken is empty and the auth interceptor set session_id in context (Bearer access token), revokes that session.
// Otherwise no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	var sessionID, userID string
	if refreshToken != "" {
		claims, err := s.tokens.ValidateRefresh(refreshToken)
		if err != nil {
			return nil
		}
		sessionID, userID = claims.SessionID, claims.Subject
	} else {
		var ok bool
		if sessionID, ok = interceptors.GetSessionID(ctx); !ok {
			return nil
		}
		userID, _ = interceptors.GetUserID(ctx)
	}
	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		return err
	}
	s.logAudit(ctx, userID, auditdomain.ActionLogout, sessionID)
	s.emit(userID, "", sessionID, telemetrydomain.EventLogout, nil)
	return nil
}

// Me returns the user of the access token in context.
func (s *AuthService) Me(ctx context.Context) (*userdomain.User, error) {
	userID, ok := interceptors.GetUserID(ctx)
	if !ok || userID == "" {
		return nil, ErrNotSignedIn
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// PurgeExpiredChallenges deletes challenges past their expiry and returns how many.
func (s *AuthService) PurgeExpiredChallenges(ctx context.Context) (int64, error) {
	return s.challengeRepo.DeleteExpired(ctx, s.now())
}

func (s *AuthService) getOrCreateDevice(ctx context.Context, userID, fingerprint string) (*devicedomain.Device, error) {
	fp := strings.TrimSpace(fingerprint)
	if fp == "" {
		fp = fallbackFingerprint
	}
	dev, err := s.deviceRepo.GetByUserAndFingerprint(ctx, userID, fp)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if dev != nil {
		if err := s.deviceRepo.UpdateLastSeen(ctx, dev.ID, now); err != nil {
			log.Printf("auth: update device last seen: %v", err)
		}
		return dev, nil
	}
	dev = &devicedomain.Device{
		ID:          uuid.New().String(),
		UserID:      userID,
		Fingerprint: fp,
		LastSeenAt:  &now,
		CreatedAt:   now,
	}
	if err := s.deviceRepo.Create(ctx, dev); err != nil {
		return nil, err
	}
	return dev, nil
}

// evaluate runs the verification policy. Errors and a missing evaluator
// require an OTP and register trust with the configured default TTL.
func (s *AuthService) evaluate(ctx context.Context, user *userdomain.User, dev *devicedomain.Device) policyengine.VerificationResult {
	fallback := policyengine.VerificationResult{
		OTPRequired:           true,
		RegisterTrustAfterOTP: true,
		TrustTTLDays:          s.cfg.DefaultTrustTTLDays,
	}
	if s.policyEvaluator == nil {
		return fallback
	}
	res, err := s.policyEvaluator.EvaluateVerification(ctx, policyengine.VerificationInput{User: user, Device: dev})
	if err != nil {
		log.Printf("auth: policy evaluation failed, requiring OTP: %v", err)
		return fallback
	}
	return res
}

func (s *AuthService) issueSession(ctx context.Context, userID, deviceID string, newUser bool) (*AuthResult, error) {
	sessionID := uuid.New().String()
	now := s.now()
	refresh, err := s.tokens.IssueRefresh(sessionID, userID)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.IssueAccess(sessionID, userID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:               sessionID,
		UserID:           userID,
		DeviceID:         deviceID,
		ExpiresAt:        now.Add(s.cfg.RefreshTTL),
		RefreshJti:       refresh.JTI,
		RefreshTokenHash: security.HashRefreshToken(refresh.Token),
		CreatedAt:        now,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresAt:    access.ExpiresAt,
		UserID:       userID,
		SessionID:    sessionID,
		NewUser:      newUser,
	}, nil
}

func (s *AuthService) logAudit(ctx context.Context, userID, action, metadata string) {
	if s.auditLogger == nil {
		return
	}
	s.auditLogger.LogEvent(ctx, userID, action, "auth", metadata)
}

func (s *AuthService) emit(userID, deviceID, sessionID, eventType string, metadata any) {
	if s.events == nil {
		return
	}
	ev := &telemetrydomain.Event{
		UserID:    userID,
		DeviceID:  deviceID,
		SessionID: sessionID,
		EventType: eventType,
		Source:    telemetrydomain.SourceAuthService,
		CreatedAt: s.now(),
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			ev.Metadata = raw
		}
	}
	telemetry.EmitAsync(s.events, ev)
}
