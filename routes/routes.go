package routes

import (
	"institute-portal-api/controllers"
	"institute-portal-api/middleware"
	"institute-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Institute Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("/mine", controllers.GetMySubmissions)
				submissions.GET("/:id", controllers.GetSubmission)

				// Only students author work
				submissions.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateSubmission)
				submissions.PUT("/:id", middleware.RequireRole(models.RoleStudent), controllers.UpdateSubmission)
				submissions.DELETE("/:id", middleware.RequireRole(models.RoleStudent), controllers.DeleteSubmission)
				submissions.POST("/:id/acknowledge-revision", middleware.RequireRole(models.RoleStudent), controllers.AcknowledgeRevision)

				// Only professors issue verdicts
				submissions.POST("/:id/verdict", middleware.RequireRole(models.RoleProfessor), controllers.SubmitVerdict)

				// Admin reporting over the audit mirror
				submissions.GET("/:id/review-history", middleware.RequireRole(models.RoleAdmin), controllers.GetReviewHistory)
			}

			// Review pool
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/eligible", middleware.RequireRole(models.RoleProfessor), controllers.GetEligibleSubmissions)
			}
		}
	}
}
