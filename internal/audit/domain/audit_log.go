package domain

import "time"

// AuditLog is one security-relevant event. UserID is empty for events with no
// known user, such as a wrong OTP for an unregistered phone.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Auth actions written by the identity service.
const (
	ActionOTPSent        = "otp_sent"
	ActionOTPFailed      = "otp_failed"
	ActionAutoVerified   = "auto_verified"
	ActionLoginSuccess   = "login_success"
	ActionLoginFailure   = "login_failure"
	ActionDeviceTrusted  = "device_trusted"
	ActionTokenRefreshed = "token_refreshed"
	ActionRefreshReuse   = "refresh_reuse"
	ActionLogout         = "logout"
)
