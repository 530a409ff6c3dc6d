package ptotemplate

import (
	"github.com/gin-gonic/gin"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	templates := r.Group("/pto/templates")
	templates.Use(middleware.AuthMiddleware())
	{
		templates.GET("", handler.GetAll)
		templates.GET("/:id", handler.GetById)
		templates.POST("", middleware.RequireAdmin(), handler.Create)
		templates.PUT("/:id", middleware.RequireAdmin(), handler.Update)
		templates.DELETE("/:id", middleware.RequireAdmin(), handler.Delete)
	}
}
