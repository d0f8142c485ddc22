package azure

import "errors"

var (
	// ErrMisconfiguredTenant means AZURE_TENANT_ID is missing; nothing can be
	// validated until the deployment is fixed.
	ErrMisconfiguredTenant = errors.New("azure tenant id not configured")

	// ErrUpstreamUnavailable means the JWKS fetch from the identity provider
	// failed (network error, timeout or non-2xx status). Safe to retry on the
	// next request.
	ErrUpstreamUnavailable = errors.New("identity provider key set unavailable")

	// ErrInvalidToken covers every token validation failure: malformed token,
	// missing or unknown kid, bad signature, expired, audience or issuer
	// mismatch. Never retried with the same token.
	ErrInvalidToken = errors.New("invalid token")
)
