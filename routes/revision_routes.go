package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/controllers"
	"github.com/pawprint-social/moderation-api/middleware"
	"github.com/pawprint-social/moderation-api/utils"
)

func SetupRevisionRoutes(authed *gin.RouterGroup, revisionController *controllers.RevisionController) {
	// Expert eligibility beyond role membership (live verification) is
	// enforced inside the workflow, not here.
	revisions := authed.Group("/admin/revisions")
	revisions.Use(middleware.RequireRoles(utils.RoleAdmin, utils.RoleModerator, utils.RoleExpert))
	{
		revisions.POST("/:id/approve", revisionController.Approve)
		revisions.POST("/:id/assign", revisionController.Assign)
		revisions.POST("/:id/rollback", revisionController.Rollback)
	}
}
