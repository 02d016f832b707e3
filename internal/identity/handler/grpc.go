package handler

import (
	"context"
	"errors"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
	"github.com/Snehil208001/Gr-nZimmer/internal/identity/service"
	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth"
)

// AuthServer implements AuthService for phone OTP sign-in, Google sign-in, refresh, logout and Me.
// Proto: proto/grunzimmer/auth/v1/auth.proto → internal/identity/handler.
type AuthServer struct {
	authv1.UnimplementedAuthServiceServer
	authSvc *service.AuthService
}

// NewAuthServer returns a new Auth gRPC server. authSvc may be nil; then every
// method except Logout returns Unimplemented.
func NewAuthServer(authSvc *service.AuthService) *AuthServer {
	return &AuthServer{authSvc: authSvc}
}

// SendOTP starts a phone verification. The response carries the verification id,
// or the session tokens when the device was auto-verified.
func (s *AuthServer) SendOTP(ctx context.Context, req *authv1.SendOTPRequest) (*authv1.SendOTPResponse, error) {
	if s.authSvc == nil {
		return nil, status.Error(codes.Unimplemented, "method SendOTP not implemented")
	}
	res, err := s.authSvc.StartPhoneVerification(ctx, req.GetPhone(), req.GetDeviceFingerprint(), req.GetDeviceToken())
	if err != nil {
		return nil, authErr(err)
	}
	return verificationResultToProto(res), nil
}

// VerifyOTP confirms a verification with the code from the SMS.
func (s *AuthServer) VerifyOTP(ctx context.Context, req *authv1.VerifyOTPRequest) (*authv1.AuthResponse, error) {
	if s.authSvc == nil {
		return nil, status.Error(codes.Unimplemented, "method VerifyOTP not implemented")
	}
	res, err := s.authSvc.ConfirmPhoneVerification(ctx, req.GetVerificationId(), req.GetCode())
	if err != nil {
		return nil, authErr(err)
	}
	return &authv1.AuthResponse{Tokens: authResultToProto(res)}, nil
}

// SignInWithGoogle exchanges a Google ID token for a session.
func (s *AuthServer) SignInWithGoogle(ctx context.Context, req *authv1.SignInWithGoogleRequest) (*authv1.AuthResponse, error) {
	if s.authSvc == nil {
		return nil, status.Error(codes.Unimplemented, "method SignInWithGoogle not implemented")
	}
	res, err := s.authSvc.SignInWithGoogle(ctx, req.GetIdToken(), req.GetDeviceFingerprint())
	if err != nil {
		return nil, authErr(err)
	}
	return &authv1.AuthResponse{Tokens: authResultToProto(res)}, nil
}

// Refresh rotates the refresh token and returns new tokens.
func (s *AuthServer) Refresh(ctx context.Context, req *authv1.RefreshRequest) (*authv1.AuthResponse, error) {
	if s.authSvc == nil {
		return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
	}
	res, err := s.authSvc.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, authErr(err)
	}
	return &authv1.AuthResponse{Tokens: authResultToProto(res)}, nil
}

// Logout revokes the session. It succeeds even when there is nothing to revoke.
func (s *AuthServer) Logout(ctx context.Context, req *authv1.LogoutRequest) (*authv1.LogoutResponse, error) {
	if s.authSvc == nil {
		return &authv1.LogoutResponse{}, nil
	}
	if err := s.authSvc.Logout(ctx, req.GetRefreshToken()); err != nil {
		return nil, authErr(err)
	}
	return &authv1.LogoutResponse{}, nil
}

// Me returns the signed-in user.
func (s *AuthServer) Me(ctx context.Context, req *authv1.MeRequest) (*authv1.MeResponse, error) {
	if s.authSvc == nil {
		return nil, status.Error(codes.Unimplemented, "method Me not implemented")
	}
	user, err := s.authSvc.Me(ctx)
	if err != nil {
		return nil, authErr(err)
	}
	return &authv1.MeResponse{
		UserId:        user.ID,
		Phone:         user.Phone,
		PhoneVerified: user.PhoneVerified,
		Email:         user.Email,
		Name:          user.Name,
	}, nil
}

func authErr(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidPhone), errors.Is(err, phoneauth.ErrInvalidCode):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrInvalidOTP):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrChallengeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrChallengeExpired):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, service.ErrTooManyAttempts):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, service.ErrOTPDelivery), errors.Is(err, service.ErrGoogleUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, service.ErrGoogleNotConfigured):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrInvalidIDToken),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenReuse),
		errors.Is(err, service.ErrNotSignedIn):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrUserDisabled):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		if _, ok := status.FromError(err); ok {
			return err
		}
		log.Printf("auth: internal error: %v", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func verificationResultToProto(res *service.VerificationResult) *authv1.SendOTPResponse {
	if res == nil {
		return &authv1.SendOTPResponse{}
	}
	if res.AutoVerified() {
		return &authv1.SendOTPResponse{AutoVerified: true, Tokens: authResultToProto(res.Tokens)}
	}
	return &authv1.SendOTPResponse{VerificationId: res.VerificationID, ExpiresAt: timestamppb.New(res.ExpiresAt)}
}

func authResultToProto(res *service.AuthResult) *authv1.AuthTokens {
	if res == nil {
		return nil
	}
	return &authv1.AuthTokens{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    timestamppb.New(res.ExpiresAt),
		UserId:       res.UserID,
		SessionId:    res.SessionID,
		NewUser:      res.NewUser,
		DeviceToken:  res.DeviceToken,
	}
}
