package router

import (
	"database/sql"

	"mal_vip_backend/internal/handlers"
	"mal_vip_backend/internal/metrics"
	"mal_vip_backend/internal/middleware"
	"mal_vip_backend/internal/repositories"
	"mal_vip_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services, and handlers, and registers all
// application routes. It returns the seed service so the caller can run the
// first-start seeding before taking traffic.
func Setup(engine *gin.Engine, db *sql.DB, reg *metrics.Registry) services.SeedService {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	benefitRepo := repositories.NewBenefitRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	memberService := services.NewMemberService(memberRepo, staffRepo, benefitRepo, activityRepo, notificationRepo, portfolioRepo, db)
	applicationService := services.NewApplicationService(applicationRepo, memberRepo, staffRepo, memberService, db)
	catalogService := services.NewCatalogService(benefitRepo, db)
	activityService := services.NewActivityService(activityRepo, db)
	notificationService := services.NewNotificationService(notificationRepo, db)
	seedService := services.NewSeedService(benefitRepo, staffRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	staffHandler := handlers.NewStaffHandler(staffService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, reg)
	memberHandler := handlers.NewMemberHandler(memberService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	activityHandler := handlers.NewActivityHandler(activityService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, memberService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupCatalogRoutes(apiV1, catalogHandler, applicationHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupCustomerRoutes(authenticated, applicationHandler, memberHandler, notificationHandler)
		SetupAdminApplicationRoutes(authenticated, applicationHandler)
		SetupAdminMemberRoutes(authenticated, memberHandler, activityHandler, notificationHandler)
		SetupAdminStaffRoutes(authenticated, staffHandler)
		SetupAdminBenefitRoutes(authenticated, catalogHandler)
	}

	return seedService
}
