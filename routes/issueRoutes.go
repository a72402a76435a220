package routes

import (
	"fixit-be/controllers"
	"fixit-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the reporter-facing issue routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issues")
	{
		issue.POST("", middlewares.AuthMiddleware("user_uid"), middlewares.ReportRateLimiter(5), controllers.CreateIssue)
		issue.GET("/:id", controllers.GetIssue)
		issue.GET("/:id/history", controllers.GetIssueHistory)
		issue.DELETE("/:id", middlewares.AuthMiddleware("user_uid"), controllers.DeleteIssue)
		issue.POST("/:id/upvote", middlewares.AuthMiddleware("user_uid"), controllers.UpvoteIssue)
		issue.POST("/:id/images", middlewares.AuthMiddleware("user_uid"), controllers.AddIssueImage)
	}
}
