package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/hirelytics/internal/app/controllers"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/middleware"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	datasetController *controllers.DatasetController,
	studentController *controllers.StudentController,
	insightsController *controllers.InsightsController,
	eventsController *controllers.EventsController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.NoRoute(func(c *gin.Context) {
		middleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found"))
	})

	v1 := router.Group("/api/v1")

	v1.GET("/health", healthController.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/admin/login", authController.AdminLogin)
		auth.POST("/student/login", authController.StudentLogin)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/session", authController.Session)
		authenticated.GET("/events/ws", eventsController.Stream)

		insights := authenticated.Group("/insights")
		{
			insights.GET("", insightsController.Get)
			insights.GET("/dashboard", insightsController.Dashboard)
		}

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(domain.RoleAdmin))
		{
			admin.GET("/dataset/template", datasetController.Template)
			admin.GET("/dataset", datasetController.Get)
			admin.POST("/dataset", datasetController.Upload)
			admin.DELETE("/dataset", datasetController.Delete)
		}

		student := authenticated.Group("/student")
		student.Use(authMiddleware.RoleRequired(domain.RoleStudent))
		{
			student.POST("/predict", studentController.Predict)
			student.POST("/resume/analyze", studentController.AnalyzeResume)
			student.POST("/resume/build", studentController.BuildResume)
		}
	}
}
