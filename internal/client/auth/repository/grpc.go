package repository

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
	devv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/dev/v1"
	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth"
)

const (
	defaultOTPTimeout = 60 * time.Second
	// refreshSkew refreshes access tokens this long before they expire.
	refreshSkew = 30 * time.Second
)

// Client is the identity service API used by the repositories.
type Client = authv1.AuthServiceClient

// Options configures both repository variants.
type Options struct {
	// DeviceID is sent as the device fingerprint with sign-in requests.
	DeviceID string
	// OTPTimeout bounds SendOTP; 0 means 60s.
	OTPTimeout time.Duration
	// DevOTP, when set together with OnDevOTP, reads the code of each new
	// challenge from DevService so it can be shown without an SMS.
	DevOTP   devv1.DevServiceClient
	OnDevOTP func(otp string)
}

// Dial connects to the identity service at addr. tlsConfig nil means plaintext.
func Dial(addr string, tlsConfig *tls.Config) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if tlsConfig != nil {
		creds = credentials.NewTLS(tlsConfig)
	}
	return grpc.NewClient(addr,
		grpc.WithTransportCredentials(creds),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
}

// core holds what both platform variants share: Google sign-in and the session.
type core struct {
	client   Client
	sessions SessionStore
	deviceID string
	now      func() time.Time
}

func newCore(client Client, sessions SessionStore, deviceID string) core {
	return core{client: client, sessions: sessions, deviceID: deviceID, now: time.Now}
}

// saveTokens stores the session and, when the service trusted this device,
// its new device token.
func (c *core) saveTokens(t *authv1.AuthTokens) error {
	if t.GetAccessToken() == "" || t.GetUserId() == "" {
		return errors.New("identity service returned no session")
	}
	if err := c.sessions.Save(sessionFromTokens(t)); err != nil {
		return err
	}
	if tok := t.GetDeviceToken(); tok != "" {
		if err := c.sessions.SaveDeviceToken(tok); err != nil {
			log.Printf("auth: store device token: %v", err)
		}
	}
	return nil
}

func (c *core) SignInWithGoogle(ctx context.Context, idToken string) (err error) {
	defer recoverErr("sign in with google", &err)
	if idToken == "" {
		return ErrMissingIDToken
	}
	resp, err := c.client.SignInWithGoogle(ctx, &authv1.SignInWithGoogleRequest{IdToken: idToken, DeviceFingerprint: c.deviceID})
	if err != nil {
		return serviceErr(err)
	}
	return c.saveTokens(resp.GetTokens())
}

func (c *core) IsUserLoggedIn() bool {
	_, ok := c.UserID()
	return ok
}

func (c *core) UserID() (string, bool) {
	s, ok, err := c.sessions.Load()
	if err != nil {
		log.Printf("auth: load session: %v", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	return s.UserID, true
}

// authorized returns ctx carrying a valid access token, rotating the refresh token when the access token is stale.
func (c *core) authorized(ctx context.Context) (context.Context, error) {
	s, ok, err := c.sessions.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotSignedIn
	}
	if !s.ExpiresAt.IsZero() && c.now().Add(refreshSkew).After(s.ExpiresAt) {
		resp, err := c.client.Refresh(ctx, &authv1.RefreshRequest{RefreshToken: s.RefreshToken})
		if err != nil {
			return nil, serviceErr(err)
		}
		if err := c.saveTokens(resp.GetTokens()); err != nil {
			return nil, err
		}
		s = sessionFromTokens(resp.GetTokens())
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+s.AccessToken), nil
}

func (c *core) Profile(ctx context.Context) (p Profile, err error) {
	defer recoverErr("profile", &err)
	ctx, err = c.authorized(ctx)
	if err != nil {
		return Profile{}, err
	}
	me, err := c.client.Me(ctx, &authv1.MeRequest{})
	if err != nil {
		return Profile{}, serviceErr(err)
	}
	return Profile{
		UserID:        me.GetUserId(),
		Phone:         me.GetPhone(),
		PhoneVerified: me.GetPhoneVerified(),
		Email:         me.GetEmail(),
		Name:          me.GetName(),
	}, nil
}

// SignOut forgets the local session even when the service cannot be reached.
func (c *core) SignOut(ctx context.Context) (err error) {
	defer recoverErr("sign out", &err)
	s, ok, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotSignedIn
	}
	if _, err := c.client.Logout(ctx, &authv1.LogoutRequest{RefreshToken: s.RefreshToken}); err != nil {
		log.Printf("auth: logout on service failed: %v", err)
	}
	return c.sessions.Clear()
}

// GRPCRepository signs in with phone OTP or Google through the identity service.
type GRPCRepository struct {
	core
	host       HostProvider
	otpTimeout time.Duration
	devOTP     devv1.DevServiceClient
	onDevOTP   func(string)
}

var _ Repository = (*GRPCRepository)(nil)

// NewGRPCRepository returns the full repository. host may be nil; then SendOTP fails with ErrHostNotFound.
func NewGRPCRepository(client Client, sessions SessionStore, host HostProvider, opts Options) *GRPCRepository {
	timeout := opts.OTPTimeout
	if timeout <= 0 {
		timeout = defaultOTPTimeout
	}
	return &GRPCRepository{
		core:       newCore(client, sessions, opts.DeviceID),
		host:       host,
		otpTimeout: timeout,
		devOTP:     opts.DevOTP,
		onDevOTP:   opts.OnDevOTP,
	}
}

func (r *GRPCRepository) SendOTP(ctx context.Context, phone string) (p PendingVerification, err error) {
	defer recoverErr("send otp", &err)
	if r.host == nil || !r.host.HostAvailable() {
		return PendingVerification{}, ErrHostNotFound
	}
	phone, err = phoneauth.NormalizePhone(phone)
	if err != nil {
		return PendingVerification{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.otpTimeout)
	defer cancel()

	deviceToken, err := r.sessions.DeviceToken()
	if err != nil {
		log.Printf("auth: load device token: %v", err)
	}
	resp, err := r.client.SendOTP(ctx, &authv1.SendOTPRequest{
		Phone:             phone,
		DeviceFingerprint: r.deviceID,
		DeviceToken:       deviceToken,
	})
	if err != nil {
		return PendingVerification{}, serviceErr(err)
	}
	if resp.GetAutoVerified() {
		if err := r.saveTokens(resp.GetTokens()); err != nil {
			return PendingVerification{}, err
		}
		return PendingVerification{autoVerified: true}, nil
	}
	id := resp.GetVerificationId()
	if id == "" {
		return PendingVerification{}, errors.New("identity service returned no verification id")
	}
	r.showDevOTP(ctx, id)
	return PendingVerification{id: id, expiresAt: timeOf(resp.GetExpiresAt())}, nil
}

func (r *GRPCRepository) showDevOTP(ctx context.Context, verificationID string) {
	if r.devOTP == nil || r.onDevOTP == nil {
		return
	}
	resp, err := r.devOTP.GetOTP(ctx, &devv1.GetOTPRequest{ChallengeId: verificationID})
	if err != nil {
		log.Printf("auth: dev otp: %v", err)
		return
	}
	r.onDevOTP(resp.GetOtp())
}

// VerifyOTP returns nil at once for an auto-verified handle; the session is already stored.
func (r *GRPCRepository) VerifyOTP(ctx context.Context, pending PendingVerification, code string) (err error) {
	defer recoverErr("verify otp", &err)
	if pending.IsZero() {
		return ErrVerificationMissing
	}
	if pending.autoVerified {
		return nil
	}
	code, err = phoneauth.ValidateCode(code)
	if err != nil {
		return err
	}
	resp, err := r.client.VerifyOTP(ctx, &authv1.VerifyOTPRequest{VerificationId: pending.id, Code: code})
	if err != nil {
		return serviceErr(err)
	}
	return r.saveTokens(resp.GetTokens())
}

// FederatedOnlyRepository signs in with Google only; phone OTP is not available on the platform.
type FederatedOnlyRepository struct {
	core
}

var _ Repository = (*FederatedOnlyRepository)(nil)

// NewFederatedOnlyRepository returns the Google-only repository.
func NewFederatedOnlyRepository(client Client, sessions SessionStore, opts Options) *FederatedOnlyRepository {
	return &FederatedOnlyRepository{core: newCore(client, sessions, opts.DeviceID)}
}

func (r *FederatedOnlyRepository) SendOTP(context.Context, string) (PendingVerification, error) {
	return PendingVerification{}, ErrPhoneAuthUnsupported
}

func (r *FederatedOnlyRepository) VerifyOTP(context.Context, PendingVerification, string) error {
	return ErrPhoneAuthUnsupported
}
