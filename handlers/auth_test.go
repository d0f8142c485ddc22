package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summaryhub/summaryhub/internal/azure"
	"github.com/summaryhub/summaryhub/internal/config"
	"github.com/summaryhub/summaryhub/internal/users"
)

func setupAuthRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	keys := azure.NewKeySetCache(cfg.Azure.Authority, cfg.Azure.TenantID)
	validator := azure.NewValidator(keys, cfg.Azure)
	svc := users.NewService(newFakeUserRepo(), validator, azure.NewRoleMapping(cfg.Azure))
	r := gin.New()
	NewAuthHandler(cfg, keys, validator, svc).Register(r.Group(""))
	return r
}

func devConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Azure: config.AzureConfig{
			TenantID:  "test-tenant",
			ClientID:  "test-client",
			Authority: "login.microsoftonline.com",
			Audience:  "test-client",
			Algorithm: "RS256",
		},
	}
}

func TestAuthHealth(t *testing.T) {
	r := setupAuthRouter(t, devConfig())

	w := request(r, http.MethodGet, "/auth/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["tenant"])
	assert.Equal(t, "https://login.microsoftonline.com/test-tenant/v2.0", body["issuer"])
}

func TestJWKSColdCache(t *testing.T) {
	r := setupAuthRouter(t, devConfig())

	w := request(r, http.MethodGet, "/auth/jwks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["cached"])
}

func TestValidateTokenRequiresBearer(t *testing.T) {
	r := setupAuthRouter(t, devConfig())

	w := request(r, http.MethodPost, "/auth/validate-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateTokenReportsFailure(t *testing.T) {
	cfg := devConfig()
	// empty tenant makes validation fail without reaching the network
	cfg.Azure.TenantID = ""
	r := setupAuthRouter(t, cfg)

	w := request(r, http.MethodPost, "/auth/validate-token", "some-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["valid"])
	assert.NotEmpty(t, body["error"])
}

func TestDebugEndpointsDisabledInProduction(t *testing.T) {
	cfg := devConfig()
	cfg.Server.Environment = "production"
	r := setupAuthRouter(t, cfg)

	w := request(r, http.MethodGet, "/auth/jwks", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(r, http.MethodPost, "/auth/validate-token", "tok", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// health stays available
	w = request(r, http.MethodGet, "/auth/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
