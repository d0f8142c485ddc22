package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/summaryhub/summaryhub/internal/azure"
	"github.com/summaryhub/summaryhub/internal/config"
	"github.com/summaryhub/summaryhub/internal/users"
	"github.com/summaryhub/summaryhub/pkg/middleware"
)

// AuthHandler exposes token debugging endpoints. They are registered only
// outside production.
type AuthHandler struct {
	cfg       *config.Config
	keys      *azure.KeySetCache
	validator *azure.Validator
	users     *users.Service
}

func NewAuthHandler(cfg *config.Config, keys *azure.KeySetCache, v *azure.Validator, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, keys: keys, validator: v, users: u}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.GET("/health", h.Health)
	if h.cfg.IsProduction() {
		return
	}
	a.GET("/jwks", h.JWKS)
	a.POST("/validate-token", h.ValidateToken)
}

// Health reports whether token validation is configured for a tenant.
func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"tenant":     h.cfg.Azure.TenantID != "",
		"issuer":     azure.IssuerURL(h.cfg.Azure.Authority, h.cfg.Azure.TenantID),
		"configured": h.cfg.Azure.ClientID != "",
	})
}

// JWKS shows the state of the signing-key cache without triggering a fetch.
func (h *AuthHandler) JWKS(c *gin.Context) {
	ks := h.keys.Cached()
	if ks == nil {
		c.JSON(http.StatusOK, gin.H{"cached": false, "kids": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cached":       true,
		"kids":         ks.Kids(),
		"fetchedAt":    ks.FetchedAt().Format(time.RFC3339),
		"cacheExpires": ks.ExpiresAt().Format(time.RFC3339),
	})
}

// ValidateToken checks the bearer token and reports the claims and the
// application role they map to. Validation failures return 200 with
// valid=false so clients can inspect the reason.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	claims, err := h.validator.Validate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"subject":    claims.Subject(),
		"email":      claims.Email(),
		"roles":      claims.Roles(),
		"groups":     claims.Groups(),
		"mappedRole": h.users.MapRole(claims),
	})
}
