package ptorequest

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/middleware"
)

// RegisterRoutes mounts the request and approval endpoints. The
// idempotency middleware guards the mutating routes against duplicate
// submissions from client retries.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idempotency gin.HandlerFunc) {
	pto := r.Group("/pto")
	pto.Use(middleware.AuthMiddleware(), middleware.RateLimitByEmployee(rate.Limit(5), 10))
	{
		pto.POST("/requests", idempotency, handler.Create)
		pto.GET("/requests/mine", handler.MyRequests)
		pto.GET("/requests/month", handler.OrganizationMonth)
		pto.DELETE("/requests/:id", idempotency, handler.Delete)

		pto.GET("/approvals/pending", handler.PendingApprovals)
		pto.POST("/approvals/:id/approve", idempotency, handler.Approve)
		pto.POST("/approvals/:id/reject", idempotency, handler.Reject)
	}
}
