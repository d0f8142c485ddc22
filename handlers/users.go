package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/internal/users"
	"github.com/summaryhub/summaryhub/pkg/middleware"
)

// UserHandler exposes registration, the profile endpoint and the admin user
// management API.
type UserHandler struct {
	users *users.Service
}

func NewUserHandler(u *users.Service) *UserHandler {
	return &UserHandler{users: u}
}

// Register routes under /users
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.POST("/register", h.RegisterUser)
	g.GET("/me", h.Me)

	admin := g.Group("", middleware.RequireUser(h.users), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PUT("/:id", h.UpdateRole)
	admin.DELETE("/:id", h.Delete)
}

// RegisterUser creates a user record for the bearer token's subject. The
// first registration in an empty store becomes admin.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	u, err := h.users.Register(c.Request.Context(), token)
	if err != nil {
		status, body := middleware.AuthErrorStatus(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Me returns the profile of the token's subject without stamping lastLogin.
func (h *UserHandler) Me(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	u, err := h.users.Lookup(c.Request.Context(), token)
	if err != nil {
		status, body := middleware.AuthErrorStatus(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) List(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, users.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		if errors.Is(err, users.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor, _ := middleware.UserFromContext(c)
	err := h.users.Delete(c.Request.Context(), actor, c.Param("id"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, users.ErrSelfDeletion):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
	case errors.Is(err, users.ErrNotRegistered):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
	}
}
