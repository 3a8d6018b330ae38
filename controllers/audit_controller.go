package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/services"
)

type AuditController struct {
	Audit *services.AuditService
}

func NewAuditController(audit *services.AuditService) *AuditController {
	return &AuditController{Audit: audit}
}

// Search godoc
// @Summary Query the audit log
// @Description The compliance record is queryable by actorId, by targetType+targetId, or by action
// @Tags audit
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /admin/audit [get]
func (ac *AuditController) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	if actor := c.Query("actorId"); actor != "" {
		actorID, err := strconv.ParseUint(actor, 10, 32)
		if err != nil {
			respondError(c, services.ErrValidation)
			return
		}
		logs, err := ac.Audit.ByActor(uint(actorID), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: logs})
		return
	}

	if targetType, targetID := c.Query("targetType"), c.Query("targetId"); targetType != "" && targetID != "" {
		logs, err := ac.Audit.ByTarget(targetType, targetID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: logs})
		return
	}

	if action := c.Query("action"); action != "" {
		logs, err := ac.Audit.ByAction(action, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: logs})
		return
	}

	respondError(c, services.ErrValidation)
}
