package azure

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/summaryhub/summaryhub/pkg/logger"
	"github.com/summaryhub/summaryhub/pkg/metrics"
)

const (
	// keySetTTL is how long a fetched JWKS is served from cache. Azure rotates
	// signing keys rarely; a stale set self-heals on the next refresh.
	keySetTTL = 24 * time.Hour

	fetchTimeout = 30 * time.Second
)

// KeySet is an immutable snapshot of the provider's signing keys, indexed by
// kid. It is replaced wholesale on refresh; in-flight validations keep using
// the snapshot they started with.
type KeySet struct {
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
	expiresAt time.Time
}

// Key returns the RSA public key for the given kid.
func (ks *KeySet) Key(kid string) (*rsa.PublicKey, bool) {
	k, ok := ks.keys[kid]
	return k, ok
}

// Kids lists the key ids present in the set.
func (ks *KeySet) Kids() []string {
	out := make([]string, 0, len(ks.keys))
	for kid := range ks.keys {
		out = append(out, kid)
	}
	return out
}

func (ks *KeySet) FetchedAt() time.Time { return ks.fetchedAt }
func (ks *KeySet) ExpiresAt() time.Time { return ks.expiresAt }

// KeySetCache fetches and caches the tenant's JWKS document. One instance is
// created at startup and shared by reference; there is no package-level state.
type KeySetCache struct {
	mu      sync.RWMutex
	current *KeySet

	tenantID string
	url      string
	client   *http.Client
	now      func() time.Time
}

// JWKSEndpoint returns the discovery URL for a tenant's signing keys.
func JWKSEndpoint(authority, tenantID string) string {
	return fmt.Sprintf("https://%s/%s/discovery/v2.0/keys", authority, tenantID)
}

// NewKeySetCache creates an empty cache for the given tenant. The first Get
// performs the fetch.
func NewKeySetCache(authority, tenantID string) *KeySetCache {
	return &KeySetCache{
		tenantID: tenantID,
		url:      JWKSEndpoint(authority, tenantID),
		client:   &http.Client{Timeout: fetchTimeout},
		now:      time.Now,
	}
}

// Get returns the cached key set, fetching a fresh one when the cache is
// empty or past its TTL. Concurrent callers during a miss may each fetch;
// the fetch is idempotent and the last writer wins.
func (c *KeySetCache) Get(ctx context.Context) (*KeySet, error) {
	if c.tenantID == "" {
		return nil, ErrMisconfiguredTenant
	}

	c.mu.RLock()
	cur := c.current
	c.mu.RUnlock()
	if cur != nil && c.now().Before(cur.expiresAt) {
		return cur, nil
	}

	ks, err := c.fetch(ctx)
	if err != nil {
		metrics.KeySetFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.KeySetFetches.WithLabelValues("ok").Inc()

	c.mu.Lock()
	c.current = ks
	c.mu.Unlock()
	return ks, nil
}

// Cached returns the current snapshot without triggering a fetch, or nil when
// the cache is cold. Used by the debug JWKS endpoint.
func (c *KeySetCache) Cached() *KeySet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *KeySetCache) fetch(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: jwks endpoint returned %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var doc struct {
		Keys []struct {
			Kid string `json:"kid"`
			Kty string `json:"kty"`
			Use string `json:"use"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding jwks: %v", ErrUpstreamUnavailable, err)
	}

	now := c.now()
	ks := &KeySet{
		keys:      make(map[string]*rsa.PublicKey, len(doc.Keys)),
		fetchedAt: now,
		expiresAt: now.Add(keySetTTL),
	}
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := rsaKeyFromJWK(k.N, k.E)
		if err != nil {
			logger.Warnf("skipping unusable jwks key %q: %v", k.Kid, err)
			continue
		}
		ks.keys[k.Kid] = pub
	}
	logger.Debugf("jwks refreshed: %d keys, expires %s", len(ks.keys), ks.expiresAt.Format(time.RFC3339))
	return ks, nil
}

// rsaKeyFromJWK builds an RSA public key from base64url modulus and exponent.
func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("bad modulus: %v", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("bad exponent: %v", err)
	}
	exp := 0
	for _, b := range eb {
		exp = exp<<8 | int(b)
	}
	if exp <= 1 {
		return nil, fmt.Errorf("bad exponent value %d", exp)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: exp}, nil
}
