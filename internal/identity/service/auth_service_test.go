package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	devicedomain "github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/devotp"
	"github.com/Snehil208001/Gr-nZimmer/internal/federated"
	identitydomain "github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
	phonedomain "github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/domain"
	policyengine "github.com/Snehil208001/Gr-nZimmer/internal/policy/engine"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
	"github.com/Snehil208001/Gr-nZimmer/internal/server/interceptors"
	sessiondomain "github.com/Snehil208001/Gr-nZimmer/internal/session/domain"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry"
	telemetrydomain "github.com/Snehil208001/Gr-nZimmer/internal/telemetry/domain"
	userdomain "github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
)

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*userdomain.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u2 := *u
		return &u2, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByPhone(ctx context.Context, phone string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Phone == phone {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u2 := *u
	r.byID[u.ID] = &u2
	return nil
}

func (r *memUserRepo) SetPhoneVerified(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.PhoneVerified = true
	}
	return nil
}

type memIdentityRepo struct {
	mu sync.Mutex
	m  map[string]*identitydomain.Identity
}

func (r *memIdentityRepo) GetByProviderID(ctx context.Context, provider identitydomain.IdentityProvider, providerID string) (*identitydomain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.m {
		if i.Provider == provider && i.ProviderID == providerID {
			return i, nil
		}
	}
	return nil, nil
}

func (r *memIdentityRepo) Create(ctx context.Context, i *identitydomain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[i.ID] = i
	return nil
}

type memSessionRepo struct {
	mu           sync.Mutex
	m            map[string]*sessiondomain.Session
	revokeAllErr error
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s2 := *s
		return &s2, nil
	}
	return nil, nil
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s2 := *s
	r.m[s.ID] = &s2
	return nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		t := time.Now()
		s.RevokedAt = &t
	}
	return nil
}

func (r *memSessionRepo) RevokeAllByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revokeAllErr != nil {
		return r.revokeAllErr
	}
	t := time.Now()
	for _, s := range r.m {
		if s.UserID == userID {
			s.RevokedAt = &t
		}
	}
	return nil
}

func (r *memSessionRepo) UpdateRefreshToken(ctx context.Context, id, jti, refreshTokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.RefreshJti = jti
		s.RefreshTokenHash = refreshTokenHash
	}
	return nil
}

func (r *memSessionRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (r *memSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

func (r *memSessionRepo) revoked(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	return ok && s.RevokedAt != nil
}

type memDeviceRepo struct {
	mu sync.Mutex
	m  map[string]*devicedomain.Device
}

func (r *memDeviceRepo) GetByUserAndFingerprint(ctx context.Context, userID, fingerprint string) (*devicedomain.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.m {
		if d.UserID == userID && d.Fingerprint == fingerprint {
			d2 := *d
			return &d2, nil
		}
	}
	return nil, nil
}

func (r *memDeviceRepo) Create(ctx context.Context, d *devicedomain.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d2 := *d
	r.m[d.ID] = &d2
	return nil
}

func (r *memDeviceRepo) UpdateTrusted(ctx context.Context, id string, trusted bool, until *time.Time, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.m[id]; ok {
		d.Trusted = trusted
		d.TrustedUntil = until
		d.TrustTokenHash = tokenHash
		d.RevokedAt = nil
	}
	return nil
}

func (r *memDeviceRepo) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.m[id]; ok {
		d.LastSeenAt = &at
	}
	return nil
}

type memChallengeRepo struct {
	mu sync.Mutex
	m  map[string]*phonedomain.Challenge
}

func (r *memChallengeRepo) Create(ctx context.Context, c *phonedomain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c2 := *c
	r.m[c.ID] = &c2
	return nil
}

func (r *memChallengeRepo) GetByID(ctx context.Context, id string) (*phonedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.m[id]; ok {
		c2 := *c
		return &c2, nil
	}
	return nil, nil
}

func (r *memChallengeRepo) ReserveAttempt(ctx context.Context, id string, limit int) (*phonedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok || c.Attempts >= limit {
		return nil, nil
	}
	c.Attempts++
	c2 := *c
	return &c2, nil
}

func (r *memChallengeRepo) Consume(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}

func (r *memChallengeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

func (r *memChallengeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.m {
		if c.Expired(now) {
			delete(r.m, id)
			n++
		}
	}
	return n, nil
}

func (r *memChallengeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}

// recordingOTPSender records SendOTP calls so tests can read the code that was "texted".
type recordingOTPSender struct {
	mu    sync.Mutex
	calls []struct{ Phone, OTP string }
	err   error
}

func (s *recordingOTPSender) SendOTP(ctx context.Context, phone, otp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, struct{ Phone, OTP string }{Phone: phone, OTP: otp})
	return nil
}

func (s *recordingOTPSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *recordingOTPSender) lastOTP() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return s.calls[len(s.calls)-1].OTP
}

// memPolicyEvaluator requires an OTP unless an active user with a verified
// phone signs in from an effectively trusted device.
type memPolicyEvaluator struct {
	err error
}

func (e *memPolicyEvaluator) EvaluateVerification(ctx context.Context, in policyengine.VerificationInput) (policyengine.VerificationResult, error) {
	if e.err != nil {
		return policyengine.VerificationResult{}, e.err
	}
	res := policyengine.VerificationResult{OTPRequired: true, RegisterTrustAfterOTP: true, TrustTTLDays: 30}
	if in.User != nil && in.User.Active() && in.User.PhoneVerified && in.Device.IsEffectivelyTrusted(time.Now().UTC()) {
		res.OTPRequired = false
	}
	return res, nil
}

type fakeGoogleVerifier struct {
	identities map[string]*federated.GoogleIdentity
}

func (v *fakeGoogleVerifier) Verify(ctx context.Context, idToken string) (*federated.GoogleIdentity, error) {
	if id, ok := v.identities[idToken]; ok {
		return id, nil
	}
	return nil, federated.ErrInvalidIDToken
}

type recordingAuditLogger struct {
	mu      sync.Mutex
	actions []string
}

func (l *recordingAuditLogger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, action)
}

func (l *recordingAuditLogger) has(action string) bool {
	return l.count(action) > 0
}

func (l *recordingAuditLogger) count(action string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, a := range l.actions {
		if a == action {
			n++
		}
	}
	return n
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEmitter) Emit(ctx context.Context, ev *telemetrydomain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev.EventType)
	return nil
}

type testSetup struct {
	svc        *AuthService
	users      *memUserRepo
	identities *memIdentityRepo
	sessions   *memSessionRepo
	devices    *memDeviceRepo
	challenges *memChallengeRepo
	sms        *recordingOTPSender
	devOTP     *devotp.MemoryStore
	audit      *recordingAuditLogger
	tokens     *security.TokenProvider
	// deviceTokens holds the trust token each fingerprint received, as the app's keyring would.
	deviceTokens map[string]string
}

func newTestSetup(t *testing.T, otpReturnToClient bool) *testSetup {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	st := &testSetup{
		users:        &memUserRepo{byID: make(map[string]*userdomain.User)},
		identities:   &memIdentityRepo{m: make(map[string]*identitydomain.Identity)},
		sessions:     &memSessionRepo{m: make(map[string]*sessiondomain.Session)},
		devices:      &memDeviceRepo{m: make(map[string]*devicedomain.Device)},
		challenges:   &memChallengeRepo{m: make(map[string]*phonedomain.Challenge)},
		sms:          &recordingOTPSender{},
		devOTP:       devotp.NewMemoryStore(),
		audit:        &recordingAuditLogger{},
		tokens:       tokens,
		deviceTokens: make(map[string]string),
	}
	google := &fakeGoogleVerifier{identities: map[string]*federated.GoogleIdentity{
		"google-token-1": {Subject: "g-sub-1", Email: "gardener@example.com", EmailVerified: true, Name: "Gardener"},
	}}
	st.svc = NewAuthService(
		st.users,
		st.identities,
		st.sessions,
		st.devices,
		st.challenges,
		&memPolicyEvaluator{},
		st.sms,
		google,
		security.NewHasher(4),
		tokens,
		st.devOTP,
		st.audit,
		Config{
			RefreshTTL:          24 * time.Hour,
			ChallengeTTL:        60 * time.Second,
			MaxAttempts:         3,
			DefaultTrustTTLDays: 30,
			OTPReturnToClient:   otpReturnToClient,
		},
	)
	return st
}

const testPhone = "+4915112345678"

// signInWithPhone runs send + verify and returns the session. It presents
// and keeps the device token like the app does.
func (st *testSetup) signInWithPhone(t *testing.T, phone, fp string) *AuthResult {
	t.Helper()
	ctx := context.Background()
	ver, err := st.svc.StartPhoneVerification(ctx, phone, fp, st.deviceTokens[fp])
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if ver.AutoVerified() {
		return ver.Tokens
	}
	res, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if err != nil {
		t.Fatalf("ConfirmPhoneVerification: %v", err)
	}
	if res.DeviceToken != "" {
		st.deviceTokens[fp] = res.DeviceToken
	}
	return res
}

func TestAuthService_StartPhoneVerification_SendsOTP(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	res, err := st.svc.StartPhoneVerification(ctx, "+49 151 1234-5678", "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if res.AutoVerified() {
		t.Fatal("unknown phone must not be auto-verified")
	}
	if res.VerificationID == "" {
		t.Fatal("expected verification id")
	}
	if ttl := time.Until(res.ExpiresAt); ttl <= 0 || ttl > 61*time.Second {
		t.Errorf("expires in %v, want about 60s", ttl)
	}
	if st.sms.callCount() != 1 {
		t.Fatalf("sms calls = %d, want 1", st.sms.callCount())
	}
	if st.sms.calls[0].Phone != testPhone {
		t.Errorf("sms phone = %q, want normalized %q", st.sms.calls[0].Phone, testPhone)
	}
	ch, _ := st.challenges.GetByID(ctx, res.VerificationID)
	if ch == nil {
		t.Fatal("challenge not stored")
	}
	if ch.CodeHash == "" || ch.CodeHash == st.sms.lastOTP() {
		t.Error("challenge must store a hash of the OTP, not the OTP")
	}
	if !st.audit.has("otp_sent") {
		t.Error("expected otp_sent audit event")
	}
}

func TestAuthService_StartPhoneVerification_InvalidPhone(t *testing.T) {
	st := newTestSetup(t, false)
	for _, phone := range []string{"", "12345", "015112345678", "+0123456789", "+49abc"} {
		_, err := st.svc.StartPhoneVerification(context.Background(), phone, "fp-1", "")
		if !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("phone %q: err = %v, want ErrInvalidPhone", phone, err)
		}
	}
	if st.sms.callCount() != 0 {
		t.Error("no SMS should be sent for invalid numbers")
	}
}

func TestAuthService_StartPhoneVerification_OTPReturnToClient(t *testing.T) {
	st := newTestSetup(t, true)
	ctx := context.Background()

	res, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if st.sms.callCount() != 0 {
		t.Error("SMS must not be sent in dev OTP mode")
	}
	otp, ok := st.devOTP.Get(ctx, res.VerificationID)
	if !ok || len(otp) != 6 {
		t.Fatalf("dev OTP store: otp=%q ok=%v", otp, ok)
	}
	if _, err := st.svc.ConfirmPhoneVerification(ctx, res.VerificationID, otp); err != nil {
		t.Fatalf("ConfirmPhoneVerification: %v", err)
	}
	if _, ok := st.devOTP.Get(ctx, res.VerificationID); ok {
		t.Error("dev OTP must be dropped once the challenge is consumed")
	}
}

func TestAuthService_StartPhoneVerification_DeliveryFailure(t *testing.T) {
	st := newTestSetup(t, false)
	st.sms.err = errors.New("gateway down")

	_, err := st.svc.StartPhoneVerification(context.Background(), testPhone, "fp-1", "")
	if !errors.Is(err, ErrOTPDelivery) {
		t.Fatalf("err = %v, want ErrOTPDelivery", err)
	}
	if st.challenges.count() != 0 {
		t.Error("challenge should be removed when delivery fails")
	}
}

func TestAuthService_ConfirmPhoneVerification_NewUser(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	res, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if err != nil {
		t.Fatalf("ConfirmPhoneVerification: %v", err)
	}
	if !res.NewUser {
		t.Error("first sign-in should create the user")
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.SessionID == "" {
		t.Fatal("expected tokens and session id")
	}
	claims, err := st.tokens.ValidateAccess(res.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if claims.Subject != res.UserID || claims.SessionID != res.SessionID {
		t.Errorf("claims = (%s, %s), want (%s, %s)", claims.Subject, claims.SessionID, res.UserID, res.SessionID)
	}

	user, _ := st.users.GetByID(ctx, res.UserID)
	if user == nil || user.Phone != testPhone || !user.PhoneVerified {
		t.Fatalf("user = %+v, want verified %s", user, testPhone)
	}
	ident, _ := st.identities.GetByProviderID(ctx, identitydomain.IdentityProviderPhone, testPhone)
	if ident == nil || ident.UserID != res.UserID {
		t.Fatal("phone identity should be linked to the user")
	}
	dev, _ := st.devices.GetByUserAndFingerprint(ctx, res.UserID, "fp-1")
	if dev == nil || !dev.Trusted || dev.TrustedUntil == nil {
		t.Fatalf("device = %+v, want trusted with expiry", dev)
	}
	if d := time.Until(*dev.TrustedUntil); d < 29*24*time.Hour || d > 31*24*time.Hour {
		t.Errorf("trusted for %v, want about 30 days", d)
	}
	if res.DeviceToken == "" || !security.DeviceTokenMatches(res.DeviceToken, dev.TrustTokenHash) {
		t.Errorf("device token %q does not match the stored digest", res.DeviceToken)
	}

	_, err = st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("replayed code: err = %v, want ErrChallengeNotFound", err)
	}
}

func TestAuthService_ConfirmPhoneVerification_ExistingUser(t *testing.T) {
	st := newTestSetup(t, false)
	first := st.signInWithPhone(t, testPhone, "fp-1")
	second := st.signInWithPhone(t, testPhone, "fp-2")
	if second.NewUser {
		t.Error("second sign-in must not create a user")
	}
	if second.UserID != first.UserID {
		t.Errorf("user id = %s, want %s", second.UserID, first.UserID)
	}
	if second.SessionID == first.SessionID {
		t.Error("each sign-in should create its own session")
	}
}

func TestAuthService_ConfirmPhoneVerification_WrongCode(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	wrong := "000000"
	if st.sms.lastOTP() == wrong {
		wrong = "111111"
	}
	for i := 1; i < 3; i++ {
		_, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, wrong)
		if !errors.Is(err, ErrInvalidOTP) {
			t.Fatalf("attempt %d: err = %v, want ErrInvalidOTP", i, err)
		}
	}
	_, err = st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, wrong)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("last attempt: err = %v, want ErrTooManyAttempts", err)
	}
	_, err = st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("after exhaustion: err = %v, want ErrChallengeNotFound", err)
	}
	if !st.audit.has("otp_failed") {
		t.Error("expected otp_failed audit event")
	}
}

func TestAuthService_ConfirmPhoneVerification_ConcurrentWrongCodes(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	wrong := "000000"
	if st.sms.lastOTP() == wrong {
		wrong = "111111"
	}
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, wrong)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	invalid := 0
	for err := range errs {
		switch {
		case errors.Is(err, ErrInvalidOTP):
			invalid++
		case errors.Is(err, ErrTooManyAttempts), errors.Is(err, ErrChallengeNotFound):
		default:
			t.Errorf("unexpected result %v", err)
		}
	}
	if got := st.audit.count("otp_failed"); got != 3 {
		t.Errorf("codes compared %d times, want MaxAttempts (3)", got)
	}
	if invalid > 2 {
		t.Errorf("ErrInvalidOTP returned %d times, want at most 2", invalid)
	}
	if _, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP()); err == nil {
		t.Error("correct code after exhaustion must fail")
	}
}

func TestAuthService_ConfirmPhoneVerification_ConcurrentCorrectCodes(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	otp := st.sms.lastOTP()
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, otp); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := successes.Load(); got != 1 {
		t.Errorf("verification succeeded %d times, want 1", got)
	}
	if got := st.sessions.count(); got != 1 {
		t.Errorf("sessions = %d, want 1", got)
	}
}

func TestAuthService_ConfirmPhoneVerification_MalformedCode(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, code)
		if !errors.Is(err, ErrInvalidOTP) {
			t.Errorf("code %q: err = %v, want ErrInvalidOTP", code, err)
		}
	}
	ch, _ := st.challenges.GetByID(ctx, ver.VerificationID)
	if ch == nil || ch.Attempts != 0 {
		t.Errorf("malformed codes must not count as attempts: %+v", ch)
	}
}

func TestAuthService_ConfirmPhoneVerification_Expired(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	st.svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	_, err = st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if !errors.Is(err, ErrChallengeExpired) {
		t.Fatalf("err = %v, want ErrChallengeExpired", err)
	}
	if st.challenges.count() != 0 {
		t.Error("expired challenge should be deleted")
	}
}

func TestAuthService_ConfirmPhoneVerification_UnknownID(t *testing.T) {
	st := newTestSetup(t, false)
	for _, id := range []string{"", "  ", "no-such-challenge"} {
		_, err := st.svc.ConfirmPhoneVerification(context.Background(), id, "123456")
		if !errors.Is(err, ErrChallengeNotFound) {
			t.Errorf("id %q: err = %v, want ErrChallengeNotFound", id, err)
		}
	}
}

func TestAuthService_AutoVerifyTrustedDevice(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	first := st.signInWithPhone(t, testPhone, "fp-1")
	if first.DeviceToken == "" {
		t.Fatal("first sign-in should issue a device token")
	}

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", first.DeviceToken)
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if !ver.AutoVerified() {
		t.Fatal("trusted device with its token should be auto-verified")
	}
	if ver.VerificationID != "" {
		t.Error("auto-verification must not create a challenge")
	}
	if ver.Tokens.UserID != first.UserID {
		t.Errorf("user id = %s, want %s", ver.Tokens.UserID, first.UserID)
	}
	if st.sms.callCount() != 1 {
		t.Errorf("sms calls = %d, want 1 (none for auto-verification)", st.sms.callCount())
	}
	if !st.audit.has("auto_verified") {
		t.Error("expected auto_verified audit event")
	}

	other, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-other", first.DeviceToken)
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if other.AutoVerified() {
		t.Error("a token presented with another fingerprint must get an OTP")
	}
}

func TestAuthService_FingerprintAloneRequiresOTP(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	first := st.signInWithPhone(t, testPhone, "fp-1")
	wrongToken, _, err := security.NewDeviceToken()
	if err != nil {
		t.Fatalf("NewDeviceToken: %v", err)
	}

	for name, token := range map[string]string{
		"no token":        "",
		"wrong token":     wrongToken,
		"token as digest": security.HashDeviceToken(first.DeviceToken),
	} {
		t.Run(name, func(t *testing.T) {
			before := st.sms.callCount()
			ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", token)
			if err != nil {
				t.Fatalf("StartPhoneVerification: %v", err)
			}
			if ver.AutoVerified() {
				t.Fatal("known fingerprint without the device token must not skip the OTP")
			}
			if ver.VerificationID == "" || st.sms.callCount() != before+1 {
				t.Error("expected a new challenge and an SMS")
			}
		})
	}
}

func TestAuthService_DeviceWithoutTokenRequiresOTP(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	first := st.signInWithPhone(t, testPhone, "fp-1")

	// A device trusted without a token digest, as rows created before device
	// tokens existed are.
	dev, _ := st.devices.GetByUserAndFingerprint(ctx, first.UserID, "fp-1")
	if err := st.devices.UpdateTrusted(ctx, dev.ID, true, nil, ""); err != nil {
		t.Fatalf("UpdateTrusted: %v", err)
	}
	for _, token := range []string{"", first.DeviceToken} {
		ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", token)
		if err != nil {
			t.Fatalf("StartPhoneVerification: %v", err)
		}
		if ver.AutoVerified() {
			t.Errorf("token %q: device without a stored digest must get an OTP", token)
		}
	}
}

func TestAuthService_DeviceTokenRotatesOnOTPSignIn(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	first := st.signInWithPhone(t, testPhone, "fp-1")

	ver, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", "")
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	second, err := st.svc.ConfirmPhoneVerification(ctx, ver.VerificationID, st.sms.lastOTP())
	if err != nil {
		t.Fatalf("ConfirmPhoneVerification: %v", err)
	}
	if second.DeviceToken == "" || second.DeviceToken == first.DeviceToken {
		t.Fatal("OTP sign-in should issue a fresh device token")
	}
	old, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", first.DeviceToken)
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if old.AutoVerified() {
		t.Error("replaced device token must no longer skip the OTP")
	}
}

func TestAuthService_PolicyErrorRequiresOTP(t *testing.T) {
	st := newTestSetup(t, false)
	st.signInWithPhone(t, testPhone, "fp-1")
	st.svc.policyEvaluator = &memPolicyEvaluator{err: errors.New("opa down")}

	ver, err := st.svc.StartPhoneVerification(context.Background(), testPhone, "fp-1", st.deviceTokens["fp-1"])
	if err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	if ver.AutoVerified() {
		t.Error("policy failure must fall back to requiring an OTP")
	}
}

func TestAuthService_DisabledUser(t *testing.T) {
	st := newTestSetup(t, false)
	res := st.signInWithPhone(t, testPhone, "fp-1")
	st.users.mu.Lock()
	st.users.byID[res.UserID].Status = userdomain.UserStatusDisabled
	st.users.mu.Unlock()

	_, err := st.svc.StartPhoneVerification(context.Background(), testPhone, "fp-1", "")
	if !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("err = %v, want ErrUserDisabled", err)
	}
}

func TestAuthService_SignInWithGoogle(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	res, err := st.svc.SignInWithGoogle(ctx, "google-token-1", "fp-1")
	if err != nil {
		t.Fatalf("SignInWithGoogle: %v", err)
	}
	if !res.NewUser || res.AccessToken == "" {
		t.Fatalf("res = %+v, want new user with tokens", res)
	}
	user, _ := st.users.GetByID(ctx, res.UserID)
	if user == nil || user.Email != "gardener@example.com" || user.Name != "Gardener" {
		t.Fatalf("user = %+v", user)
	}

	again, err := st.svc.SignInWithGoogle(ctx, "google-token-1", "fp-1")
	if err != nil {
		t.Fatalf("SignInWithGoogle again: %v", err)
	}
	if again.NewUser || again.UserID != res.UserID {
		t.Errorf("second sign-in = %+v, want existing user %s", again, res.UserID)
	}
}

func TestAuthService_SignInWithGoogle_InvalidToken(t *testing.T) {
	st := newTestSetup(t, false)
	for _, tok := range []string{"", "forged"} {
		_, err := st.svc.SignInWithGoogle(context.Background(), tok, "fp-1")
		if !errors.Is(err, ErrInvalidIDToken) {
			t.Errorf("token %q: err = %v, want ErrInvalidIDToken", tok, err)
		}
	}
}

func TestAuthService_SignInWithGoogle_NotConfigured(t *testing.T) {
	st := newTestSetup(t, false)
	st.svc.googleVerifier = nil
	_, err := st.svc.SignInWithGoogle(context.Background(), "google-token-1", "fp-1")
	if !errors.Is(err, ErrGoogleNotConfigured) {
		t.Fatalf("err = %v, want ErrGoogleNotConfigured", err)
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	login := st.signInWithPhone(t, testPhone, "fp-1")

	refreshed, err := st.svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh token should rotate")
	}
	if refreshed.SessionID != login.SessionID || refreshed.UserID != login.UserID {
		t.Errorf("refreshed = %+v, want same session and user", refreshed)
	}
	if _, err := st.svc.Refresh(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}
}

func TestAuthService_RefreshTokenReuseDetection(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	login := st.signInWithPhone(t, testPhone, "fp-1")
	other := st.signInWithPhone(t, testPhone, "fp-2")

	if _, err := st.svc.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	_, err := st.svc.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrRefreshTokenReuse) {
		t.Fatalf("reused token: err = %v, want ErrRefreshTokenReuse", err)
	}
	if !st.sessions.revoked(login.SessionID) || !st.sessions.revoked(other.SessionID) {
		t.Error("reuse should revoke every session of the user")
	}
	if !st.audit.has("refresh_reuse") {
		t.Error("expected refresh_reuse audit event")
	}
}

func TestAuthService_RefreshTokenReuse_RevokeFailure(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	login := st.signInWithPhone(t, testPhone, "fp-1")
	if _, err := st.svc.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	storeErr := errors.New("db down")
	st.sessions.mu.Lock()
	st.sessions.revokeAllErr = storeErr
	st.sessions.mu.Unlock()
	_, err := st.svc.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the revoke failure", err)
	}
	if errors.Is(err, ErrRefreshTokenReuse) {
		t.Error("reuse must not be reported as handled when revocation failed")
	}
	if !st.audit.has("refresh_reuse") {
		t.Error("expected refresh_reuse audit event")
	}
}

func TestAuthService_Refresh_Invalid(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()

	if _, err := st.svc.Refresh(ctx, ""); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("empty: err = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := st.svc.Refresh(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("garbage: err = %v, want ErrInvalidRefreshToken", err)
	}
	login := st.signInWithPhone(t, testPhone, "fp-1")
	if _, err := st.svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("access token as refresh: err = %v, want ErrInvalidRefreshToken", err)
	}
	_ = st.sessions.Revoke(ctx, login.SessionID)
	if _, err := st.svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("revoked session: err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestAuthService_LogoutWithRefreshToken(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	login := st.signInWithPhone(t, testPhone, "fp-1")

	if err := st.svc.Logout(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !st.sessions.revoked(login.SessionID) {
		t.Error("session should be revoked")
	}
	if _, err := st.svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("refresh after logout: err = %v, want ErrInvalidRefreshToken", err)
	}
	if err := st.svc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("invalid token logout should be a no-op, got %v", err)
	}
}

func TestAuthService_LogoutFromContext(t *testing.T) {
	st := newTestSetup(t, false)
	login := st.signInWithPhone(t, testPhone, "fp-1")

	if err := st.svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout without identity: %v", err)
	}
	if st.sessions.revoked(login.SessionID) {
		t.Fatal("no-op logout must not revoke")
	}
	ctx := interceptors.WithIdentity(context.Background(), login.UserID, login.SessionID)
	if err := st.svc.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if !st.sessions.revoked(login.SessionID) {
		t.Error("session from context should be revoked")
	}
}

func TestAuthService_Me(t *testing.T) {
	st := newTestSetup(t, false)
	login := st.signInWithPhone(t, testPhone, "fp-1")

	if _, err := st.svc.Me(context.Background()); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("no identity: err = %v, want ErrNotSignedIn", err)
	}
	ctx := interceptors.WithIdentity(context.Background(), login.UserID, login.SessionID)
	user, err := st.svc.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.ID != login.UserID || user.Phone != testPhone {
		t.Errorf("user = %+v", user)
	}
}

func TestAuthService_PurgeExpiredChallenges(t *testing.T) {
	st := newTestSetup(t, false)
	ctx := context.Background()
	if _, err := st.svc.StartPhoneVerification(ctx, testPhone, "fp-1", ""); err != nil {
		t.Fatalf("StartPhoneVerification: %v", err)
	}
	n, err := st.svc.PurgeExpiredChallenges(ctx)
	if err != nil || n != 0 {
		t.Fatalf("fresh challenge purged: n=%d err=%v", n, err)
	}
	st.svc.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	n, err = st.svc.PurgeExpiredChallenges(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpiredChallenges = %d, %v; want 1, nil", n, err)
	}
}

func TestAuthService_EmitsTelemetry(t *testing.T) {
	st := newTestSetup(t, false)
	em := &recordingEmitter{}
	st.svc.SetEventEmitter(em)
	st.signInWithPhone(t, testPhone, "fp-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	em.mu.Lock()
	defer em.mu.Unlock()
	want := map[string]bool{telemetrydomain.EventOTPSent: false, telemetrydomain.EventOTPVerified: false}
	for _, e := range em.events {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for e, seen := range want {
		if !seen {
			t.Errorf("event %s not emitted; got %v", e, em.events)
		}
	}
}
