package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/me", handler.GetMe)
		employees.POST("/sync", handler.Sync)
		employees.GET("", middleware.RequireAdmin(), handler.GetAll)
		employees.PUT("/:id", middleware.RequireAdmin(), handler.Update)
	}
}
