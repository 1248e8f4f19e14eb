package router

import (
	"mal_vip_backend/internal/handlers"
	"mal_vip_backend/internal/middleware"
	"mal_vip_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupCatalogRoutes sets up the public membership catalog routes. These
// back the marketing pages and the application form, so no auth is required.
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler, applicationHandler *handlers.ApplicationHandler) {
	catalogRoutes := apiGroup.Group("/membership")
	{
		catalogRoutes.GET("/info", catalogHandler.GetMembershipInfo)
		catalogRoutes.GET("/tiers", catalogHandler.GetTiers)
		catalogRoutes.GET("/benefits", catalogHandler.GetBenefits)
		catalogRoutes.GET("/brackets", applicationHandler.MembershipBrackets)
	}
}

// SetupCustomerRoutes sets up the routes a customer uses for their own
// application and membership.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, applicationHandler *handlers.ApplicationHandler, memberHandler *handlers.MemberHandler, notificationHandler *handlers.NotificationHandler) {
	applicationRoutes := authenticatedGroup.Group("/applications")
	{
		applicationRoutes.POST("", applicationHandler.SubmitApplication)
		applicationRoutes.GET("/status", applicationHandler.GetApplicationStatus)
	}

	memberRoutes := authenticatedGroup.Group("/members/me")
	{
		memberRoutes.GET("/dashboard", memberHandler.GetDashboard)
		memberRoutes.GET("/profile", memberHandler.GetProfile)
		memberRoutes.GET("/benefits", memberHandler.GetMyBenefits)
	}

	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetNotifications)
		notificationRoutes.POST("/:id/read", notificationHandler.MarkNotificationRead)
		notificationRoutes.POST("/:id/unread", notificationHandler.MarkNotificationUnread)
	}
}

// SetupAdminApplicationRoutes sets up the application review routes.
func SetupAdminApplicationRoutes(authenticatedGroup *gin.RouterGroup, applicationHandler *handlers.ApplicationHandler) {
	adminApplicationRoutes := authenticatedGroup.Group("/admin/applications")
	adminApplicationRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		adminApplicationRoutes.GET("", applicationHandler.GetApplications)
		adminApplicationRoutes.GET("/:id", applicationHandler.GetApplicationByID)
		adminApplicationRoutes.POST("/:id/transition", applicationHandler.TransitionApplication)
		adminApplicationRoutes.POST("/:id/assign-reviewer", applicationHandler.AssignReviewer)
		adminApplicationRoutes.POST("/approve", applicationHandler.ApproveApplications)
		adminApplicationRoutes.POST("/reject", applicationHandler.RejectApplications)
	}
}

// SetupAdminMemberRoutes sets up the member management routes.
func SetupAdminMemberRoutes(authenticatedGroup *gin.RouterGroup, memberHandler *handlers.MemberHandler, activityHandler *handlers.ActivityHandler, notificationHandler *handlers.NotificationHandler) {
	adminMemberRoutes := authenticatedGroup.Group("/admin/members")
	adminMemberRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		adminMemberRoutes.GET("", memberHandler.GetMembers)
		adminMemberRoutes.GET("/:id", memberHandler.GetMemberByID)
		adminMemberRoutes.PUT("/:id", memberHandler.UpdateMember)
		adminMemberRoutes.PATCH("/:id/status", memberHandler.SetMemberStatus)
		adminMemberRoutes.POST("/tier", memberHandler.AssignMemberTier)
		adminMemberRoutes.GET("/:id/activities", activityHandler.GetMemberActivities)
		adminMemberRoutes.POST("/:id/activities", activityHandler.RecordActivity)
		adminMemberRoutes.POST("/:id/notifications", notificationHandler.NotifyMember)
	}
}

// SetupAdminStaffRoutes sets up the staff directory routes. Directory
// changes are restricted to administrators; reads are open to staff as well.
func SetupAdminStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/admin/staff")
	staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		staffRoutes.GET("", staffHandler.GetStaffMembers)
		staffRoutes.GET("/:id", staffHandler.GetStaffMemberByID)
	}

	staffAdminRoutes := authenticatedGroup.Group("/admin/staff")
	staffAdminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		staffAdminRoutes.POST("", staffHandler.CreateStaffMember)
		staffAdminRoutes.PUT("/:id", staffHandler.UpdateStaffMember)
		staffAdminRoutes.DELETE("/:id", staffHandler.DeactivateStaffMember)
	}
}

// SetupAdminBenefitRoutes sets up the benefit registry management routes.
func SetupAdminBenefitRoutes(authenticatedGroup *gin.RouterGroup, catalogHandler *handlers.CatalogHandler) {
	benefitRoutes := authenticatedGroup.Group("/admin/benefits")
	benefitRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		benefitRoutes.POST("", catalogHandler.CreateBenefit)
	}
}
