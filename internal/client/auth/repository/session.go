package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
	"google.golang.org/protobuf/types/known/timestamppb"

	authv1 "github.com/Snehil208001/Gr-nZimmer/api/generated/auth/v1"
)

const (
	keyringUser = "session"
	// keyringDeviceUser holds the device trust token. It outlives sign-out so
	// the next sign-in on this device can skip the OTP.
	keyringDeviceUser = "device-token"
)

// Session is the persisted result of a sign-in.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	SessionID    string    `json:"session_id"`
}

func sessionFromTokens(t *authv1.AuthTokens) Session {
	return Session{
		AccessToken:  t.GetAccessToken(),
		RefreshToken: t.GetRefreshToken(),
		ExpiresAt:    timeOf(t.GetExpiresAt()),
		UserID:       t.GetUserId(),
		SessionID:    t.GetSessionId(),
	}
}

// timeOf keeps an unset timestamp as the zero time rather than the Unix epoch.
func timeOf(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

// SessionStore persists the current session and the device trust token.
// Load reports ok=false when no session is stored. Clear removes the session
// only; DeviceToken returns "" when the device holds no token.
type SessionStore interface {
	Load() (s Session, ok bool, err error)
	Save(s Session) error
	Clear() error
	DeviceToken() (string, error)
	SaveDeviceToken(token string) error
}

// KeyringStore keeps the session as one JSON secret in the OS keyring
// (Keychain, Secret Service, Windows Credential Manager).
type KeyringStore struct {
	service string
}

// NewKeyringStore returns a store under the given keyring service name.
func NewKeyringStore(service string) *KeyringStore {
	return &KeyringStore{service: service}
}

func (k *KeyringStore) Load() (Session, bool, error) {
	raw, err := keyring.Get(k.service, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Session{}, false, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, s.UserID != "", nil
}

func (k *KeyringStore) Save(s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := keyring.Set(k.service, keyringUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear() error {
	if err := keyring.Delete(k.service, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (k *KeyringStore) DeviceToken() (string, error) {
	tok, err := keyring.Get(k.service, keyringDeviceUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read device token: %w", err)
	}
	return tok, nil
}

func (k *KeyringStore) SaveDeviceToken(token string) error {
	if err := keyring.Set(k.service, keyringDeviceUser, token); err != nil {
		return fmt.Errorf("failed to store device token: %w", err)
	}
	return nil
}
