// Package federated verifies ID tokens issued by external identity providers.
package federated

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrInvalidIDToken is returned for any ID token that fails verification.
	ErrInvalidIDToken = errors.New("invalid ID token")
	// ErrKeysUnavailable is returned when Google's signing keys cannot be
	// fetched. The token itself may be valid.
	ErrKeysUnavailable = errors.New("federated: signing keys unavailable")
	// ErrNoClientIDs is returned when the verifier has no accepted audiences.
	ErrNoClientIDs = errors.New("federated: no Google client IDs configured")
)

const (
	defaultKeysTTL = time.Hour
	// minRefreshInterval bounds how often unknown key ids or fetch failures
	// can trigger a JWKS request.
	minRefreshInterval = time.Minute
	maxJWKSBytes       = 1 << 20
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// GoogleIdentity is the verified subject of a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleVerifier checks Google ID tokens: RS256 signature against Google's
// JWKS, issuer, audience in ClientIDs, and expiry. Keys are cached and
// refetched when stale or when a token names an unknown key id, at most once
// per minRefreshInterval. Concurrent refetches share one request.
type GoogleVerifier struct {
	jwksURL    string
	clientIDs  []string
	httpClient *http.Client
	keysTTL    time.Duration
	minRefresh time.Duration
	now        func() time.Time

	fetch singleflight.Group

	mu          sync.Mutex
	keys        jwk.Set
	fetchedAt   time.Time
	lastAttempt time.Time
}

// NewGoogleVerifier returns a verifier accepting tokens minted for any of clientIDs.
func NewGoogleVerifier(jwksURL string, clientIDs []string, httpClient *http.Client) (*GoogleVerifier, error) {
	if len(clientIDs) == 0 {
		return nil, ErrNoClientIDs
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleVerifier{
		jwksURL:    jwksURL,
		clientIDs:  clientIDs,
		httpClient: httpClient,
		keysTTL:    defaultKeysTTL,
		minRefresh: minRefreshInterval,
		now:        time.Now,
	}, nil
}

// Verify validates idToken and returns the identity it asserts.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}
	claims := &googleClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		return v.publicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, ErrKeysUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if !slices.Contains(googleIssuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: issuer %q", ErrInvalidIDToken, claims.Issuer)
	}
	if !slices.ContainsFunc(claims.Audience, func(aud string) bool { return slices.Contains(v.clientIDs, aud) }) {
		return nil, fmt.Errorf("%w: audience not accepted", ErrInvalidIDToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidIDToken)
	}
	return &GoogleIdentity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

func (v *GoogleVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	keys, fetchedAt, lastAttempt := v.keys, v.fetchedAt, v.lastAttempt
	v.mu.Unlock()

	now := v.now()
	fresh := keys != nil && now.Sub(fetchedAt) <= v.keysTTL
	if fresh {
		if key, ok := keys.LookupKeyID(kid); ok {
			return exportRSA(key)
		}
	}
	if !lastAttempt.IsZero() && now.Sub(lastAttempt) < v.minRefresh {
		return lookupKey(keys, kid)
	}
	set, err := v.refreshKeys(ctx)
	if err != nil {
		// Keep serving the previous set while Google is unreachable.
		if key, lookupErr := lookupKey(keys, kid); lookupErr == nil {
			return key, nil
		}
		return nil, err
	}
	return lookupKey(set, kid)
}

// refreshKeys fetches the JWKS outside v.mu, coalescing concurrent callers.
func (v *GoogleVerifier) refreshKeys(ctx context.Context) (jwk.Set, error) {
	res, err, _ := v.fetch.Do("jwks", func() (any, error) {
		v.mu.Lock()
		if !v.lastAttempt.IsZero() && v.now().Sub(v.lastAttempt) < v.minRefresh {
			keys := v.keys
			v.mu.Unlock()
			if keys == nil {
				return nil, errors.New("previous fetch failed")
			}
			return keys, nil
		}
		v.lastAttempt = v.now()
		v.mu.Unlock()

		set, err := v.fetchKeys(ctx)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		v.keys = set
		v.fetchedAt = v.now()
		v.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
	}
	return res.(jwk.Set), nil
}

func lookupKey(set jwk.Set, kid string) (*rsa.PublicKey, error) {
	if set == nil {
		return nil, ErrKeysUnavailable
	}
	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return exportRSA(key)
}

func (v *GoogleVerifier) fetchKeys(ctx context.Context) (jwk.Set, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch jwks: status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("read jwks: %w", err)
	}
	set, err := jwk.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	return set, nil
}

func exportRSA(key jwk.Key) (*rsa.PublicKey, error) {
	var raw any
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("export jwk: %w", err)
	}
	switch k := raw.(type) {
	case *rsa.PublicKey:
		return k, nil
	case rsa.PublicKey:
		return &k, nil
	default:
		return nil, fmt.Errorf("jwk is %T, want RSA public key", raw)
	}
}
