package organization

import (
	"github.com/gin-gonic/gin"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/middleware"
)

// Install/uninstall are called by the workspace integration layer with
// its service token, not by end users.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	orgs := r.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		orgs.POST("/install", handler.Install)
		orgs.DELETE("/:external_id", handler.Uninstall)
		orgs.GET("/:external_id", handler.Get)
	}
}
