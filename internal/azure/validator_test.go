package azure

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/summaryhub/summaryhub/internal/config"
)

func testAzureConfig() config.AzureConfig {
	return config.AzureConfig{
		TenantID:  testTenant,
		ClientID:  testClientID,
		Authority: "login.microsoftonline.com",
		Audience:  testClientID,
		Algorithm: "RS256",
	}
}

func newTestValidator(t *testing.T, kp *testKeyPair) *Validator {
	t.Helper()
	srv, _ := kp.serveJWKS(t)
	return NewValidator(newTestCache(srv.URL), testAzureConfig())
}

func TestValidateReturnsClaimsUnchanged(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	in := azureClaims("a@x.com")
	in["roles"] = []string{"fastapi.admin"}
	in["groups"] = []string{"g1", "g2"}
	raw := kp.signToken(t, in)

	claims, err := v.Validate(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "oid-a@x.com", claims.Subject())
	require.Equal(t, "a@x.com", claims.Email())
	require.Equal(t, []string{"fastapi.admin"}, claims.Roles())
	require.Equal(t, []string{"g1", "g2"}, claims.Groups())
}

func TestValidateExpiredToken(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	in := azureClaims("a@x.com")
	in["exp"] = time.Now().Add(-time.Hour).Unix()
	raw := kp.signToken(t, in)

	_, err := v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongKeyPair(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	// signed by a different key, advertised under the same kid
	other := newTestKeyPair(t)
	raw := other.signToken(t, azureClaims("a@x.com"))

	_, err := v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateUnknownKid(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	// warm the cache while the advertised kid still matches, then rotate the
	// kid away so the signed token references a key the cache never saw
	_, err := v.keys.Get(context.Background())
	require.NoError(t, err)

	kp.kid = "rotated-away"
	raw := kp.signToken(t, azureClaims("a@x.com"))

	_, err = v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingKidHeader(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, azureClaims("a@x.com"))
	raw, err := tok.SignedString(kp.priv)
	require.NoError(t, err)

	_, err = v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAudienceMismatch(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	in := azureClaims("a@x.com")
	in["aud"] = "some-other-app"
	raw := kp.signToken(t, in)

	_, err := v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateIssuerMismatch(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	in := azureClaims("a@x.com")
	in["iss"] = "https://login.microsoftonline.com/another-tenant/v2.0"
	raw := kp.signToken(t, in)

	_, err := v.Validate(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformedToken(t *testing.T) {
	kp := newTestKeyPair(t)
	v := newTestValidator(t, kp)

	_, err := v.Validate(context.Background(), "not.a.valid.jwt.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidatePropagatesKeySetErrors(t *testing.T) {
	cache := NewKeySetCache("login.microsoftonline.com", "")
	v := NewValidator(cache, config.AzureConfig{Authority: "login.microsoftonline.com", Audience: testClientID, Algorithm: "RS256"})

	_, err := v.Validate(context.Background(), "whatever")
	require.ErrorIs(t, err, ErrMisconfiguredTenant)
}

func TestIssuerURL(t *testing.T) {
	require.Equal(t, "https://login.microsoftonline.com/t1/v2.0", IssuerURL("login.microsoftonline.com", "t1"))
}
