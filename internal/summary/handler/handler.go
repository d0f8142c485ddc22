package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/internal/summary/service"
	"github.com/summaryhub/summaryhub/pkg/middleware"
)

type createRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Summary string `json:"summary"`
}

type updateRequest struct {
	URL     string `json:"url" binding:"required,url"`
	Summary string `json:"summary" binding:"required"`
}

// RegisterSummaryRoutes mounts the summaries CRUD under /summaries. Every
// route requires an authenticated, registered user; creation additionally
// requires the writer or admin role.
func RegisterSummaryRoutes(r *gin.Engine, svc *service.Service, authn gin.HandlerFunc) {
	g := r.Group("/summaries", authn)

	g.POST("", middleware.RequireRoles(models.RoleWriter, models.RoleAdmin), func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sum, err := svc.Create(c.Request.Context(), user, req.URL, req.Summary)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create summary"})
			return
		}
		c.JSON(http.StatusCreated, sum)
	})

	g.GET("", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		list, err := svc.List(c.Request.Context(), user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list summaries"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/:id", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		sum, err := svc.Get(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})

	g.PUT("/:id", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sum, err := svc.Update(c.Request.Context(), user, c.Param("id"), req.URL, req.Summary)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c)
		sum, err := svc.Delete(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
