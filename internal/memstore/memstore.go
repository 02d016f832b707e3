// Package memstore holds in-memory implementations of the repositories. The
// server uses them when DATABASE_URL is empty; tests use them as fakes.
// Values are copied in and out so callers never share state with the store.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	auditdomain "github.com/Snehil208001/Gr-nZimmer/internal/audit/domain"
	auditrepo "github.com/Snehil208001/Gr-nZimmer/internal/audit/repository"
	devicedomain "github.com/Snehil208001/Gr-nZimmer/internal/device/domain"
	devicerepo "github.com/Snehil208001/Gr-nZimmer/internal/device/repository"
	identitydomain "github.com/Snehil208001/Gr-nZimmer/internal/identity/domain"
	identityrepo "github.com/Snehil208001/Gr-nZimmer/internal/identity/repository"
	phonedomain "github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/domain"
	phonerepo "github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/repository"
	sessiondomain "github.com/Snehil208001/Gr-nZimmer/internal/session/domain"
	sessionrepo "github.com/Snehil208001/Gr-nZimmer/internal/session/repository"
	userdomain "github.com/Snehil208001/Gr-nZimmer/internal/user/domain"
	userrepo "github.com/Snehil208001/Gr-nZimmer/internal/user/repository"
)

var (
	_ userrepo.Repository     = (*UserRepo)(nil)
	_ identityrepo.Repository = (*IdentityRepo)(nil)
	_ devicerepo.Repository   = (*DeviceRepo)(nil)
	_ sessionrepo.Repository  = (*SessionRepo)(nil)
	_ phonerepo.Repository    = (*ChallengeRepo)(nil)
	_ auditrepo.Repository    = (*AuditRepo)(nil)
)

// Store groups one repository per table.
type Store struct {
	Users      *UserRepo
	Identities *IdentityRepo
	Devices    *DeviceRepo
	Sessions   *SessionRepo
	Challenges *ChallengeRepo
	Audit      *AuditRepo
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		Users:      &UserRepo{m: make(map[string]userdomain.User)},
		Identities: &IdentityRepo{m: make(map[string]identitydomain.Identity)},
		Devices:    &DeviceRepo{m: make(map[string]devicedomain.Device)},
		Sessions:   &SessionRepo{m: make(map[string]sessiondomain.Session)},
		Challenges: &ChallengeRepo{m: make(map[string]phonedomain.Challenge)},
		Audit:      &AuditRepo{},
	}
}

// UserRepo is an in-memory user repository.
type UserRepo struct {
	mu sync.RWMutex
	m  map[string]userdomain.User
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.m[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByPhone(_ context.Context, phone string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.m {
		if phone != "" && u.Phone == phone {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(_ context.Context, u *userdomain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[u.ID] = *u
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *userdomain.User) error {
	u.UpdatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[u.ID]; ok {
		r.m[u.ID] = *u
	}
	return nil
}

func (r *UserRepo) SetPhoneVerified(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.m[userID]; ok && u.Phone != "" && !u.PhoneVerified {
		u.PhoneVerified = true
		u.UpdatedAt = time.Now().UTC()
		r.m[userID] = u
	}
	return nil
}

// IdentityRepo is an in-memory identity repository.
type IdentityRepo struct {
	mu sync.RWMutex
	m  map[string]identitydomain.Identity
}

func (r *IdentityRepo) GetByProviderID(_ context.Context, provider identitydomain.IdentityProvider, providerID string) (*identitydomain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, i := range r.m {
		if i.Provider == provider && i.ProviderID == providerID {
			return &i, nil
		}
	}
	return nil, nil
}

func (r *IdentityRepo) ListByUser(_ context.Context, userID string) ([]*identitydomain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*identitydomain.Identity
	for _, i := range r.m {
		if i.UserID == userID {
			i := i
			out = append(out, &i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (r *IdentityRepo) Create(_ context.Context, i *identitydomain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[i.ID] = *i
	return nil
}

// DeviceRepo is an in-memory device repository.
type DeviceRepo struct {
	mu sync.RWMutex
	m  map[string]devicedomain.Device
}

func (r *DeviceRepo) GetByID(_ context.Context, id string) (*devicedomain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.m[id]; ok {
		return &d, nil
	}
	return nil, nil
}

func (r *DeviceRepo) GetByUserAndFingerprint(_ context.Context, userID, fingerprint string) (*devicedomain.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.m {
		if d.UserID == userID && d.Fingerprint == fingerprint {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *DeviceRepo) Create(_ context.Context, d *devicedomain.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[d.ID] = *d
	return nil
}

func (r *DeviceRepo) UpdateTrusted(_ context.Context, id string, trusted bool, until *time.Time, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.m[id]; ok {
		d.Trusted = trusted
		d.TrustedUntil = until
		d.TrustTokenHash = tokenHash
		d.RevokedAt = nil
		r.m[id] = d
	}
	return nil
}

func (r *DeviceRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.m[id]; ok {
		d.LastSeenAt = &at
		r.m[id] = d
	}
	return nil
}

// SessionRepo is an in-memory session repository.
type SessionRepo struct {
	mu sync.RWMutex
	m  map[string]sessiondomain.Session
}

func (r *SessionRepo) GetByID(_ context.Context, id string) (*sessiondomain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.m[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *SessionRepo) Create(_ context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[s.ID] = *s
	return nil
}

func (r *SessionRepo) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok && s.RevokedAt == nil {
		now := time.Now().UTC()
		s.RevokedAt = &now
		r.m[id] = s
	}
	return nil
}

func (r *SessionRepo) RevokeAllByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for id, s := range r.m {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			r.m[id] = s
		}
	}
	return nil
}

func (r *SessionRepo) UpdateLastSeen(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.LastSeenAt = &at
		r.m[id] = s
	}
	return nil
}

func (r *SessionRepo) UpdateRefreshToken(_ context.Context, id, jti, refreshTokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s.RefreshJti = jti
		s.RefreshTokenHash = refreshTokenHash
		r.m[id] = s
	}
	return nil
}

// ChallengeRepo is an in-memory phone challenge repository.
type ChallengeRepo struct {
	mu sync.Mutex
	m  map[string]phonedomain.Challenge
}

func (r *ChallengeRepo) Create(_ context.Context, c *phonedomain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.ID] = *c
	return nil
}

func (r *ChallengeRepo) GetByID(_ context.Context, id string) (*phonedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.m[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ChallengeRepo) ReserveAttempt(_ context.Context, id string, limit int) (*phonedomain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok || c.Attempts >= limit {
		return nil, nil
	}
	c.Attempts++
	r.m[id] = c
	return &c, nil
}

func (r *ChallengeRepo) Consume(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return false, nil
	}
	delete(r.m, id)
	return true, nil
}

func (r *ChallengeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, id)
	return nil
}

func (r *ChallengeRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.m {
		if c.Expired(now) {
			delete(r.m, id)
			n++
		}
	}
	return n, nil
}

// AuditRepo is an in-memory audit log repository.
type AuditRepo struct {
	mu      sync.RWMutex
	entries []auditdomain.AuditLog
}

func (r *AuditRepo) Create(_ context.Context, a *auditdomain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *AuditRepo) ListByUser(_ context.Context, userID string, limit, offset int32) ([]*auditdomain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*auditdomain.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			e := r.entries[i]
			out = append(out, &e)
		}
	}
	if offset > 0 {
		if int(offset) >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Actions returns every recorded action in insertion order.
func (r *AuditRepo) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}
