package handler

import (
	"context"
	"log"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// checkTimeout bounds each dependency check of a readiness check.
const checkTimeout = 2 * time.Second

// Pinger reports database reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports whether the policy engine can evaluate (e.g. *engine.OPAEvaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements grpc.health.v1.Health for readiness/liveness. The overall
// service ("") and every named service report the same status.
type Server struct {
	healthpb.UnimplementedHealthServer
	pinger        Pinger
	policyChecker PolicyChecker
}

// NewServer returns a new Health gRPC server. pinger and policyChecker may be nil; then that check is skipped.
func NewServer(pinger Pinger, policyChecker PolicyChecker) *Server {
	return &Server{pinger: pinger, policyChecker: policyChecker}
}

// Check returns SERVING when the database and policy engine respond, NOT_SERVING otherwise.
// Dependency failures are reported in the status, never as a gRPC error.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if s.pinger != nil {
		pctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.pinger.PingContext(pctx)
		cancel()
		if err != nil {
			log.Printf("health: database ping failed: %v", err)
			return notServing(), nil
		}
	}
	if s.policyChecker != nil {
		pctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.policyChecker.HealthCheck(pctx)
		cancel()
		if err != nil {
			log.Printf("health: policy check failed: %v", err)
			return notServing(), nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

func notServing() *healthpb.HealthCheckResponse {
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}
}
