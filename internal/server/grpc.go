package server

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
	devv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/dev/v1"
	auditrepo "github.com/Snehil208001/Gr-nZimmer/internal/audit/repository"
	healthhandler "github.com/Snehil208001/Gr-nZimmer/internal/health/handler"
	identityhandler "github.com/Snehil208001/Gr-nZimmer/internal/identity/handler"
	identityservice "github.com/Snehil208001/Gr-nZimmer/internal/identity/service"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
	"github.com/Snehil208001/Gr-nZimmer/internal/server/interceptors"
	sessionrepo "github.com/Snehil208001/Gr-nZimmer/internal/session/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Auth is the auth service for SendOTP/VerifyOTP/SignInWithGoogle/Refresh/Logout/Me. If nil, auth RPCs return Unimplemented.
	Auth *identityservice.AuthService
	// HealthPinger is used by the health service for readiness (e.g. *sql.DB). If nil, Check skips DB ping.
	HealthPinger healthhandler.Pinger
	// HealthPolicyChecker is used by the health service for readiness (e.g. OPA evaluator). If nil, Check skips policy check.
	HealthPolicyChecker healthhandler.PolicyChecker
	// DevOTPHandler is the dev-only DevService (GetOTP). If nil, DevService is not registered. Set only when dev OTP is enabled and not production.
	DevOTPHandler devv1.DevServiceServer
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - grunzimmer.auth.v1.AuthService → internal/identity/handler
//   - grpc.health.v1.Health          → internal/health/handler
//   - grunzimmer.dev.v1.DevService   → internal/devotp/handler (dev OTP mode only)
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	authv1.RegisterAuthServiceServer(s, identityhandler.NewAuthServer(deps.Auth))
	healthpb.RegisterHealthServer(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicyChecker))
	if deps.DevOTPHandler != nil {
		devv1.RegisterDevServiceServer(s, deps.DevOTPHandler)
	}
}

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// PublicMethods returns the full method names callable without a Bearer token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		authv1.AuthService_SendOTP_FullMethodName:          true,
		authv1.AuthService_VerifyOTP_FullMethodName:        true,
		authv1.AuthService_SignInWithGoogle_FullMethodName: true,
		authv1.AuthService_Refresh_FullMethodName:          true,
		authv1.AuthService_Logout_FullMethodName:           true,
		devv1.DevService_GetOTP_FullMethodName:             true,
		healthCheckMethod:                                  true,
	}
}

// auditSkipMethods are not audited by the interceptor: the auth service writes
// richer entries for the sign-in RPCs itself, and health checks are noise.
func auditSkipMethods() map[string]bool {
	return map[string]bool{
		authv1.AuthService_SendOTP_FullMethodName:          true,
		authv1.AuthService_VerifyOTP_FullMethodName:        true,
		authv1.AuthService_SignInWithGoogle_FullMethodName: true,
		authv1.AuthService_Refresh_FullMethodName:          true,
		authv1.AuthService_Logout_FullMethodName:           true,
		healthCheckMethod:                                  true,
	}
}

// InterceptorDeps configures the unary interceptor chain.
type InterceptorDeps struct {
	// Tokens validates Bearer access tokens. Required.
	Tokens *security.TokenProvider
	// Sessions, when set, rejects access tokens whose session was revoked.
	Sessions sessionrepo.Repository
	// AuditRepo, when set, records authenticated RPCs.
	AuditRepo auditrepo.Repository
	// Events, when set, receives a grpc_request event per RPC.
	Events telemetry.EventEmitter
}

// ServerOptions returns the gRPC server options: the otelgrpc stats handler and the
// interceptor chain auth → audit → telemetry, so audit and telemetry see the caller's identity.
func ServerOptions(deps InterceptorDeps) []grpc.ServerOption {
	var validator interceptors.SessionValidator
	if deps.Sessions != nil {
		validator = SessionValidatorFromRepo(deps.Sessions)
	}
	chain := []grpc.UnaryServerInterceptor{
		interceptors.AuthUnary(deps.Tokens, PublicMethods(), validator),
	}
	if deps.AuditRepo != nil {
		chain = append(chain, interceptors.AuditUnary(deps.AuditRepo, auditSkipMethods()))
	}
	if deps.Events != nil {
		chain = append(chain, interceptors.TelemetryUnary(deps.Events, map[string]bool{healthCheckMethod: true}))
	}
	return []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(chain...),
	}
}

// SessionValidatorFromRepo returns a SessionValidator that accepts only active sessions.
func SessionValidatorFromRepo(repo sessionrepo.Repository) interceptors.SessionValidator {
	return func(ctx context.Context, sessionID string) (bool, error) {
		sess, err := repo.GetByID(ctx, sessionID)
		if err != nil || sess == nil {
			return false, err
		}
		return sess.Active(time.Now().UTC()), nil
	}
}
