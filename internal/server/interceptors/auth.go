package interceptors

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Snehil208001/Gr-nZimmer/internal/security"
)

const bearerPrefix = "bearer "

// SessionValidator reports whether the session behind an access token is still active
// (not revoked, not expired). It lets logout take effect before the access token expires.
type SessionValidator func(ctx context.Context, sessionID string) (bool, error)

// AuthUnary returns a unary server interceptor that validates the Bearer (access) token
// from gRPC metadata and sets user_id and session_id in context for protected RPCs.
// publicMethods is the set of full method names that do not require a Bearer token
// (e.g. AuthService SendOTP, VerifyOTP, SignInWithGoogle, Refresh; the health check).
// On public methods a valid token still populates the context; an invalid one is ignored.
// sessionValidator may be nil; then only the token itself is checked.
func AuthUnary(tokens *security.TokenProvider, publicMethods map[string]bool, sessionValidator SessionValidator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := extractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		claims, err := tokens.ValidateAccess(token)
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		if sessionValidator != nil {
			ok, err := sessionValidator(ctx, claims.SessionID)
			if err != nil || !ok {
				if public {
					return handler(ctx, req)
				}
				return nil, status.Error(codes.Unauthenticated, "session is no longer active")
			}
		}

		ctx = WithIdentity(ctx, claims.Subject, claims.SessionID)
		return handler(ctx, req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
