package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/letnaturebe2/vacay-buddy-sub000/internal/employee"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/messaging/kafka"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/middleware"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/organization"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptorequest"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/ptotemplate"
	"github.com/letnaturebe2/vacay-buddy-sub000/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	organizationRepo := organization.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	templateRepo := ptotemplate.NewRepository(gormDB)
	requestRepo := ptorequest.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	templateService := ptotemplate.NewService(templateRepo)
	organizationService := organization.NewService(gormDB, organizationRepo, templateService)
	employeeService := employee.NewService(gormDB, employeeRepo)
	requestService := ptorequest.NewServiceWithOutbox(
		gormDB, requestRepo, employeeRepo, templateRepo, counterRepo, outboxRepo,
	)

	// --- Handlers ---
	organizationHandler := organization.NewHandler(organizationService)
	employeeHandler := employee.NewHandler(employeeService)
	templateHandler := ptotemplate.NewHandler(templateService)
	requestHandler := ptorequest.NewHandler(requestService)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		organization.RegisterRoutes(api, organizationHandler)
		employee.RegisterRoutes(api, employeeHandler)
		ptotemplate.RegisterRoutes(api, templateHandler)
		ptorequest.RegisterRoutes(api, requestHandler, middleware.Idempotency(rdb))
	}

	return nil
}
