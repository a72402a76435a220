package routes

import (
	"fixit-be/controllers"
	"fixit-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the admin workflow routes
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin", middlewares.AuthMiddleware("admin_uid"))
	{
		admin.PATCH("/issues/:id/status", controllers.UpdateIssueStatus)
		admin.GET("/dashboard", controllers.GetAdminDashboard)
		admin.GET("/analytics", controllers.GetAnalytics)
		admin.GET("/profile", controllers.GetAdminProfile)
	}
}
