package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or signed by someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnsupportedKey is returned when the signing key is neither RSA nor ECDSA.
	ErrUnsupportedKey = errors.New("unsupported signing key")
)

// SessionClaims are the claims carried by both access and refresh tokens.
// Subject is the user id; ID (jti) binds a refresh token to its session row.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Kind      string `json:"typ"`
}

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Issued is a signed token together with its jti and expiry.
type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// TokenProvider issues and validates session JWTs using RS256 or ES256.
type TokenProvider struct {
	signer     crypto.Signer
	publicKey  crypto.PublicKey
	method     jwt.SigningMethod
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenProvider returns a TokenProvider for the given key pair. The signing
// method follows the key type: RS256 for RSA, ES256 for ECDSA.
func NewTokenProvider(keys KeyPair, issuer, audience string, accessTTL, refreshTTL time.Duration) (*TokenProvider, error) {
	var method jwt.SigningMethod
	switch keys.Private.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return nil, ErrUnsupportedKey
	}
	return &TokenProvider{
		signer:     keys.Private,
		publicKey:  keys.Public,
		method:     method,
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess issues a short-lived access token for the session.
func (p *TokenProvider) IssueAccess(sessionID, userID string) (Issued, error) {
	return p.issue(kindAccess, sessionID, userID, p.accessTTL)
}

// IssueRefresh issues a long-lived refresh token. Callers store the returned
// JTI on the session so a rotated-out token can be detected on reuse.
func (p *TokenProvider) IssueRefresh(sessionID, userID string) (Issued, error) {
	return p.issue(kindRefresh, sessionID, userID, p.refreshTTL)
}

func (p *TokenProvider) issue(kind, sessionID, userID string, ttl time.Duration) (Issued, error) {
	jti, err := generateJTI()
	if err != nil {
		return Issued{}, err
	}
	now := p.now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		SessionID: sessionID,
		Kind:      kind,
	}
	signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.signer)
	if err != nil {
		return Issued{}, err
	}
	return Issued{Token: signed, JTI: jti, ExpiresAt: exp}, nil
}

// ValidateAccess checks signature, expiry, issuer and audience of an access token.
func (p *TokenProvider) ValidateAccess(token string) (*SessionClaims, error) {
	return p.validate(token, kindAccess)
}

// ValidateRefresh checks signature, expiry, issuer and audience of a refresh token.
func (p *TokenProvider) ValidateRefresh(token string) (*SessionClaims, error) {
	return p.validate(token, kindRefresh)
}

func (p *TokenProvider) validate(token, kind string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.publicKey, nil
	},
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind || claims.SessionID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
