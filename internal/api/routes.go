package api

import (
	"net/http"

	"fitclub/membership-app/internal/domain"
	"fitclub/membership-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	membershipService service.MembershipService,
	chartService service.ChartService,
) {
	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(membershipService, chartService)
	adminHandler := NewAdminHandler(membershipService, chartService)
	chartHandler := NewChartHandler(chartService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Member Routes ---
		memberGroup := protected.Group("/member")
		memberGroup.Use(RoleMiddleware(domain.RoleMember))
		{
			memberGroup.GET("/status", memberHandler.GetMyStatus)
			memberGroup.GET("/charts", memberHandler.GetMyCharts)
			memberGroup.GET("/charts/:chartId/download-url", memberHandler.GetChartDownloadURL)
			memberGroup.GET("/trainer/can-message", memberHandler.CanMessageTrainer)
			memberGroup.POST("/memberships", memberHandler.PurchaseMembership)
		}

		// --- Chart Authoring (Trainers and Admins) ---
		chartGroup := protected.Group("/charts")
		chartGroup.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			chartGroup.POST("/memberships/:membershipId", chartHandler.CreateChart)
			chartGroup.GET("/memberships/:membershipId", chartHandler.GetChartsForMembership)
			chartGroup.POST("/:chartId/upload-url", chartHandler.RequestUploadURL)
			chartGroup.POST("/:chartId/confirm-upload", chartHandler.ConfirmUpload)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/memberships", adminHandler.ListMemberships)
			adminGroup.POST("/memberships/:membershipId/approve", adminHandler.ApproveMembership)
			adminGroup.POST("/memberships/:membershipId/reject", adminHandler.RejectMembership)
			adminGroup.POST("/memberships/:membershipId/renew", adminHandler.RenewMembership)
			adminGroup.POST("/memberships/sweep", adminHandler.SweepLapsed)
			adminGroup.GET("/charts/reminders", adminHandler.ListChartReminders)
		}
	}
}
