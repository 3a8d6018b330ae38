package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/controllers"
	"github.com/pawprint-social/moderation-api/middleware"
	"github.com/pawprint-social/moderation-api/utils"
)

func SetupModerationRoutes(authed *gin.RouterGroup, moderationController *controllers.ModerationController, auditController *controllers.AuditController) {
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(utils.RoleAdmin, utils.RoleModerator))
	{
		admin.GET("/queue-items", moderationController.ListQueueItems)
		admin.GET("/queue-counts", moderationController.QueueCounts)
		admin.PATCH("/queue-items/:id", moderationController.UpdateQueueItem)
		admin.POST("/decision", moderationController.Decide)
		admin.POST("/bulk-decision", moderationController.BulkDecide)
	}

	audit := authed.Group("/admin")
	audit.Use(middleware.RequireRoles(utils.RoleAdmin))
	{
		audit.GET("/audit", auditController.Search)
	}
}
