package router

import (
	"log"

	"github.com/1711821-sketch/PTW-sub001/internal/approval"
	"github.com/1711821-sketch/PTW-sub001/internal/handlers"
	"github.com/1711821-sketch/PTW-sub001/internal/middleware"
	"github.com/1711821-sketch/PTW-sub001/internal/models"
	"github.com/1711821-sketch/PTW-sub001/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.WorkOrder{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	workOrderRepo := repositories.NewPostgresWorkOrderRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	engine := approval.NewEngine(workOrderRepo, notificationRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	workOrderHandler := handlers.NewWorkOrderHandler(workOrderRepo, notificationRepo)
	workOrderHandler.RegisterWorkOrderRoutes(api,
		middleware.RequireRole(models.RoleAdmin, models.RoleOpgaveansvarlig))

	approvalHandler := handlers.NewApprovalHandler(engine)
	approvalHandler.RegisterApprovalRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	changesHandler := handlers.NewChangesHandler(workOrderRepo, notificationRepo)
	changesHandler.RegisterChangesRoutes(api)

	log.Println("All routes configured.")
}
