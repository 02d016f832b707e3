package server

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
	devv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/dev/v1"
	"github.com/Snehil208001/Gr-nZimmer/internal/audit"
	"github.com/Snehil208001/Gr-nZimmer/internal/devotp"
	devotphandler "github.com/Snehil208001/Gr-nZimmer/internal/devotp/handler"
	identityservice "github.com/Snehil208001/Gr-nZimmer/internal/identity/service"
	"github.com/Snehil208001/Gr-nZimmer/internal/memstore"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
)

// mockServiceRegistrar implements grpc.ServiceRegistrar for testing.
type mockServiceRegistrar struct {
	callCount int
	services  []string
}

func (m *mockServiceRegistrar) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	m.callCount++
	m.services = append(m.services, desc.ServiceName)
}

func TestRegisterServices_AllServicesRegistered(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{Auth: &identityservice.AuthService{}})

	if mockReg.callCount != 2 {
		t.Errorf("RegisterService called %d times, want 2", mockReg.callCount)
	}
	want := map[string]bool{authv1.AuthService_ServiceDesc.ServiceName: true, "grpc.health.v1.Health": true}
	for _, name := range mockReg.services {
		if !want[name] {
			t.Errorf("unexpected service %q", name)
		}
	}
}

func TestRegisterServices_DevServiceNotRegisteredWhenNil(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{})

	for _, name := range mockReg.services {
		if name == "grunzimmer.dev.v1.DevService" {
			t.Error("DevService should not be registered when DevOTPHandler is nil")
		}
	}
}

func TestRegisterServices_DevServiceRegisteredWhenProvided(t *testing.T) {
	mockReg := &mockServiceRegistrar{}
	RegisterServices(mockReg, Deps{DevOTPHandler: devotphandler.NewServer(devotp.NewMemoryStore())})

	if mockReg.callCount != 3 {
		t.Errorf("RegisterService called %d times, want 3", mockReg.callCount)
	}
	if mockReg.services[len(mockReg.services)-1] != "grunzimmer.dev.v1.DevService" {
		t.Errorf("last service = %q, want DevService", mockReg.services[len(mockReg.services)-1])
	}
}

func TestPublicMethods_MeIsProtected(t *testing.T) {
	public := PublicMethods()
	if public[authv1.AuthService_Me_FullMethodName] {
		t.Error("Me must require a token")
	}
	for _, m := range []string{
		authv1.AuthService_SendOTP_FullMethodName,
		authv1.AuthService_VerifyOTP_FullMethodName,
		authv1.AuthService_SignInWithGoogle_FullMethodName,
		healthCheckMethod,
	} {
		if !public[m] {
			t.Errorf("%s should be public", m)
		}
	}
}

type testEnv struct {
	auth   authv1.AuthServiceClient
	dev    devv1.DevServiceClient
	health healthpb.HealthClient
	store  *memstore.Store
}

// startServer runs the full server stack in dev OTP mode over an in-memory listener.
func startServer(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	store := memstore.New()
	otps := devotp.NewMemoryStore()
	authSvc := identityservice.NewAuthService(
		store.Users, store.Identities, store.Sessions, store.Devices, store.Challenges,
		nil, nil, nil,
		security.NewHasher(4), tokens, otps,
		audit.NewLogger(store.Audit, nil),
		identityservice.Config{OTPReturnToClient: true},
	)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(ServerOptions(InterceptorDeps{
		Tokens:    tokens,
		Sessions:  store.Sessions,
		AuditRepo: store.Audit,
	})...)
	RegisterServices(srv, Deps{Auth: authSvc, DevOTPHandler: devotphandler.NewServer(otps)})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testEnv{
		auth:   authv1.NewAuthServiceClient(conn),
		dev:    devv1.NewDevServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		store:  store,
	}
}

func withBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func TestServer_PhoneSignInEndToEnd(t *testing.T) {
	env := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sent, err := env.auth.SendOTP(ctx, &authv1.SendOTPRequest{Phone: "+4915112345678", DeviceFingerprint: "fp-1"})
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	otp, err := env.dev.GetOTP(ctx, &devv1.GetOTPRequest{ChallengeId: sent.GetVerificationId()})
	if err != nil {
		t.Fatalf("GetOTP: %v", err)
	}
	verified, err := env.auth.VerifyOTP(ctx, &authv1.VerifyOTPRequest{VerificationId: sent.GetVerificationId(), Code: otp.GetOtp()})
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if verified.Tokens == nil || verified.Tokens.AccessToken == "" {
		t.Fatalf("VerifyOTP = %+v, want tokens", verified)
	}

	me, err := env.auth.Me(withBearer(ctx, verified.Tokens.AccessToken), &authv1.MeRequest{})
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.GetUserId() != verified.GetTokens().GetUserId() || me.Phone != "+4915112345678" {
		t.Errorf("Me = %+v", me)
	}

	if _, err := env.auth.Logout(ctx, &authv1.LogoutRequest{RefreshToken: verified.Tokens.RefreshToken}); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = env.auth.Me(withBearer(ctx, verified.Tokens.AccessToken), &authv1.MeRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("Me after logout: code = %v, want Unauthenticated", status.Code(err))
	}
}

func TestServer_MeRequiresToken(t *testing.T) {
	env := startServer(t)
	_, err := env.auth.Me(context.Background(), &authv1.MeRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("code = %v, want Unauthenticated", status.Code(err))
	}
}

func TestServer_AuditsAuthenticatedCalls(t *testing.T) {
	env := startServer(t)
	ctx := context.Background()

	sent, err := env.auth.SendOTP(ctx, &authv1.SendOTPRequest{Phone: "+4915112345678"})
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	otp, _ := env.dev.GetOTP(ctx, &devv1.GetOTPRequest{ChallengeId: sent.GetVerificationId()})
	verified, err := env.auth.VerifyOTP(ctx, &authv1.VerifyOTPRequest{VerificationId: sent.GetVerificationId(), Code: otp.GetOtp()})
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if _, err := env.auth.Me(withBearer(ctx, verified.Tokens.AccessToken), &authv1.MeRequest{}); err != nil {
		t.Fatalf("Me: %v", err)
	}

	entries, _ := env.store.Audit.ListByUser(ctx, verified.GetTokens().GetUserId(), 10, 0)
	if len(entries) == 0 || entries[0].Resource != "auth" {
		t.Fatalf("audit entries = %+v, want the Me call recorded", entries)
	}
	for _, e := range entries {
		if e.Action == "send_otp" || e.Action == "verify_otp" {
			t.Errorf("public sign-in RPC %q should be audited by the service, not the interceptor", e.Action)
		}
	}
}

func TestServer_HealthServing(t *testing.T) {
	env := startServer(t)
	resp, err := env.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.Status)
	}
}
