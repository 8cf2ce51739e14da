package routes

import (
	"github.com/stoupi/mmvd-sub000/controllers"
	"github.com/stoupi/mmvd-sub000/middleware"
	"github.com/stoupi/mmvd-sub000/models"

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
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Proposal portal API is running",
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

			// Common reference data (all authenticated users)
			protected.GET("/windows", controllers.GetWindows)
			protected.GET("/windows/current", controllers.GetCurrentWindow)
			protected.GET("/main-areas", controllers.GetMainAreas)
			protected.GET("/categories", controllers.GetCategories)
			protected.GET("/centres", controllers.GetCentres)

			// Proposals (principal investigators)
			proposals := protected.Group("/proposals")
			proposals.Use(middleware.RequirePermission(models.PermissionSubmission))
			{
				proposals.GET("", controllers.GetProposals)
				proposals.GET("/:id", controllers.GetProposal)
				proposals.POST("", controllers.CreateProposal)
				proposals.PUT("/:id", controllers.UpdateProposal)
				proposals.DELETE("/:id", controllers.DeleteProposal)
				proposals.POST("/:id/submit", controllers.SubmitProposal)
			}

			// Reviews (reviewers see validated assignments only)
			reviews := protected.Group("/reviews")
			reviews.Use(middleware.RequirePermission(models.PermissionReviewing))
			{
				reviews.GET("", controllers.GetReviews)
				reviews.GET("/:id", controllers.GetReview)
				reviews.PUT("/:id", controllers.CompleteReview)
			}

			// Administration
			admin := protected.Group("/admin")
			admin.Use(middleware.RequirePermission(models.PermissionAdmin))
			{
				// Submission windows
				admin.POST("/windows", controllers.CreateWindow)
				admin.PUT("/windows/:id", controllers.UpdateWindow)
				admin.PUT("/windows/:id/status", controllers.SetWindowStatus)
				admin.DELETE("/windows/:id", controllers.DeleteWindow)

				// Reviewer assignment workflow
				admin.GET("/windows/:id/assignments", controllers.GetWindowAssignments)
				admin.POST("/windows/:id/validate-assignments", controllers.ValidateAssignments)
				admin.POST("/windows/:id/reviewers/:reviewerId/send-email", controllers.SendEmailToReviewer)
				admin.POST("/assignments", controllers.CreateAssignment)
				admin.PUT("/assignments/:id", controllers.UpdateAssignment)
				admin.DELETE("/assignments/:id", controllers.RemoveAssignment)

				// Proposal oversight and decisions
				admin.GET("/proposals", controllers.GetAdminProposals)
				admin.GET("/proposals/:id", controllers.GetAdminProposal)
				admin.GET("/proposals/:id/reviewers", controllers.GetRankedReviewers)
				admin.POST("/proposals/:id/decision", controllers.DecideProposal)

				// Catalog management
				admin.POST("/main-areas", controllers.CreateMainArea)
				admin.PUT("/main-areas/:id", controllers.UpdateMainArea)
				admin.DELETE("/main-areas/:id", controllers.DeleteMainArea)
				admin.POST("/categories", controllers.CreateCategory)
				admin.DELETE("/categories/:id", controllers.DeleteCategory)
				admin.POST("/centres", controllers.CreateCentre)
				admin.DELETE("/centres/:id", controllers.DeleteCentre)

				// User management
				admin.GET("/users", controllers.GetUsers)
				admin.POST("/users", controllers.CreateUser)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.POST("/users/:id/deactivate", controllers.DeactivateUser)
			}
		}
	}
}
