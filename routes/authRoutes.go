package routes

import (
	"fixit-be/controllers"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the admin authentication routes
func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth/admin")
	{
		auth.POST("/register", controllers.RegisterAdmin)
		auth.POST("/login", controllers.LoginAdmin)
		auth.POST("/logout", controllers.LogoutAdmin)
	}
}
