package domain

import (
	"encoding/json"
	"time"
)

// Event is one auth telemetry event. It is the JSON value of Kafka messages
// and the body of OTel log records.
type Event struct {
	UserID    string          `json:"user_id,omitempty"`
	DeviceID  string          `json:"device_id,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event types.
const (
	EventOTPSent          = "otp_sent"
	EventOTPVerified      = "otp_verified"
	EventOTPFailed        = "otp_failed"
	EventAutoVerified     = "auto_verified"
	EventGoogleSignIn     = "google_sign_in"
	EventGoogleSignInFail = "google_sign_in_failed"
	EventTokenRefreshed   = "token_refreshed"
	EventLogout           = "logout"
	EventGRPCRequest      = "grpc_request"
)

// Sources.
const (
	SourceAuthService     = "auth_service"
	SourceGRPCInterceptor = "grpc_interceptor"
)
