package router

import (
	"tenure-registry/internal/config"
	"tenure-registry/internal/handler"
	"tenure-registry/internal/middleware"
	"tenure-registry/internal/repository"
	"tenure-registry/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	personRepo := repository.NewPersonRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	recordRepo := repository.NewImportRecordRepository(db)
	historyRepo := repository.NewImportHistoryRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	importHandler := handler.NewImportHandler(sessionRepo, recordRepo, historyRepo, asynqClient, redis, cfg)
	registryHandler := handler.NewRegistryHandler(buildingRepo, unitRepo, personRepo)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// Import session routes
	imports := protected.Group("/imports")
	imports.Post("/", importHandler.UploadFile)
	imports.Get("/", importHandler.GetSessions)
	imports.Get("/history", importHandler.GetHistory)
	imports.Get("/progress/:session_code", importHandler.GetProgress)
	imports.Get("/:id", importHandler.GetSessionDetail)
	imports.Get("/:id/summary", importHandler.GetSummary)
	imports.Get("/:id/records", importHandler.GetRecords)
	imports.Post("/:id/records/:record_id/resolve", importHandler.ResolveRecord)
	imports.Post("/:id/commit", importHandler.CommitSession)
	imports.Post("/:id/cancel", importHandler.CancelSession)
	imports.Get("/:id/report", importHandler.DownloadReport)
	imports.Delete("/:id", middleware.AdminOnly(), importHandler.DeleteSession)

	// Registry lookup routes
	buildings := protected.Group("/buildings")
	buildings.Get("/", registryHandler.GetBuildings)
	buildings.Get("/:building_id", registryHandler.GetBuilding)

	units := protected.Group("/units")
	units.Get("/", registryHandler.GetUnits)

	persons := protected.Group("/persons")
	persons.Get("/", registryHandler.GetPersons)
}
