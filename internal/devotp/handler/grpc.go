// Package handler implements the dev-only gRPC DevService.
package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	devv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/dev/v1"
	"github.com/Snehil208001/Gr-nZimmer/internal/devotp"
)

const devOTPNote = "DEV MODE ONLY"

// Server implements DevService. Only registered when dev OTP is enabled and not production.
type Server struct {
	devv1.UnimplementedDevServiceServer
	store devotp.Store
}

// NewServer returns a DevService server that reads OTP from the given store.
func NewServer(store devotp.Store) *Server {
	return &Server{store: store}
}

// GetOTP returns the plain OTP for the challenge. NotFound if missing, expired or already used.
func (s *Server) GetOTP(ctx context.Context, req *devv1.GetOTPRequest) (*devv1.GetOTPResponse, error) {
	challengeID := strings.TrimSpace(req.GetChallengeId())
	if challengeID == "" {
		return nil, status.Error(codes.InvalidArgument, "challenge_id is required")
	}
	otp, ok := s.store.Get(ctx, challengeID)
	if !ok {
		return nil, status.Error(codes.NotFound, "OTP not found or expired")
	}
	return &devv1.GetOTPResponse{Otp: otp, Note: devOTPNote}, nil
}
