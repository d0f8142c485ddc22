package azure

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testKid      = "test-key-id-123"
	testTenant   = "test-tenant-id"
	testClientID = "test-client-id"
)

// testKeyPair mints RS256 tokens and serves the matching JWKS document,
// mirroring what the tenant's discovery endpoint returns.
type testKeyPair struct {
	priv *rsa.PrivateKey
	kid  string
}

func newTestKeyPair(t *testing.T) *testKeyPair {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &testKeyPair{priv: priv, kid: testKid}
}

func (kp *testKeyPair) jwksDocument() map[string]interface{} {
	pub := kp.priv.Public().(*rsa.PublicKey)
	return map[string]interface{}{
		"keys": []map[string]interface{}{
			{
				"kty": "RSA",
				"use": "sig",
				"kid": kp.kid,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
}

// serveJWKS starts a test server answering the JWKS document and returns it
// together with a request counter.
func (kp *testKeyPair) serveJWKS(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var fetches atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(kp.jwksDocument())
	}))
	t.Cleanup(srv.Close)
	return srv, &fetches
}

// signToken signs claims with the pair's private key and kid header.
func (kp *testKeyPair) signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kp.kid
	raw, err := tok.SignedString(kp.priv)
	require.NoError(t, err)
	return raw
}

// azureClaims returns the standard claim set an Entra ID v2 access token
// carries, valid for an hour.
func azureClaims(email string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":                "https://login.microsoftonline.com/" + testTenant + "/v2.0",
		"aud":                testClientID,
		"exp":                now.Add(time.Hour).Unix(),
		"iat":                now.Unix(),
		"nbf":                now.Unix(),
		"sub":                "sub-" + email,
		"oid":                "oid-" + email,
		"tid":                testTenant,
		"ver":                "2.0",
		"preferred_username": email,
		"email":              email,
		"name":               "Test User",
	}
}

// newTestCache builds a cache pointed at the test server instead of Azure.
func newTestCache(url string) *KeySetCache {
	c := NewKeySetCache("login.microsoftonline.com", testTenant)
	c.url = url
	return c
}
