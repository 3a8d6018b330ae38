package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/utils"
)

type ReportController struct {
	Queue *services.QueueService
}

func NewReportController(queue *services.QueueService) *ReportController {
	return &ReportController{Queue: queue}
}

type reportRequest struct {
	ContentType   string `json:"contentType" binding:"required"`
	ContentID     string `json:"contentId" binding:"required"`
	SubjectUserID uint   `json:"subjectUserId"`
	Reason        string `json:"reason" binding:"required"`
}

// Submit godoc
// @Summary Report a piece of content
// @Description Creates a queue item, or adds the reporter to an existing active one and escalates its priority
// @Tags reports
// @Accept json
// @Produce json
// @Success 201 {object} StandardResponse
// @Router /reports [post]
func (rc *ReportController) Submit(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	item, err := rc.Queue.Report(models.QueueReport, req.ContentType, req.ContentID, req.SubjectUserID, claims.UserID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: item})
}
