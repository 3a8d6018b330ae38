package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/utils"
)

type ModerationController struct {
	Queue  *services.QueueService
	Engine *services.DecisionEngine
	Bulk   *services.BulkProcessor
}

func NewModerationController(queue *services.QueueService, engine *services.DecisionEngine, bulk *services.BulkProcessor) *ModerationController {
	return &ModerationController{Queue: queue, Engine: engine, Bulk: bulk}
}

// ListQueueItems godoc
// @Summary List moderation queue items
// @Description Returns queue items ordered by priority (urgent first) then age (oldest first)
// @Tags moderation
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /admin/queue-items [get]
func (mc *ModerationController) ListQueueItems(c *gin.Context) {
	filter := services.QueueFilter{
		QueueType: c.Query("queueType"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	page, pageSize := utils.ParsePagination(c)

	items, total, err := mc.Queue.ListItems(filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    items,
		Pagination: &PaginationMeta{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  totalPages(total, pageSize),
		},
	})
}

// QueueCounts godoc
// @Summary Per-queue item counts for operator alerting
// @Tags moderation
// @Produce json
// @Success 200 {object} services.QueueCounts
// @Router /admin/queue-counts [get]
func (mc *ModerationController) QueueCounts(c *gin.Context) {
	counts, err := mc.Queue.Counts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

type updateItemRequest struct {
	Priority   string  `json:"priority"`
	AssignedTo *uint   `json:"assignedTo"`
	Notes      *string `json:"notes"`
}

// UpdateQueueItem godoc
// @Summary Update a queue item outside the decision path
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path int true "Queue item ID"
// @Router /admin/queue-items/{id} [patch]
func (mc *ModerationController) UpdateQueueItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, services.ErrValidation)
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	item, err := mc.Queue.UpdateItem(uint(id), req.Priority, req.AssignedTo, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: item})
}

type decisionRequest struct {
	QueueItemID uint                    `json:"queueItemId" binding:"required"`
	Action      string                  `json:"action" binding:"required"`
	Reason      string                  `json:"reason"`
	Metadata    services.ActionMetadata `json:"metadata"`
}

// Decide godoc
// @Summary Apply a single moderator decision to a queue item
// @Tags moderation
// @Accept json
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /admin/decision [post]
func (mc *ModerationController) Decide(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	item, err := mc.Engine.Decide(services.DecisionInput{
		QueueItemID: req.QueueItemID,
		Action:      req.Action,
		ActorID:     claims.UserID,
		ActorRoles:  claims.Roles,
		Reason:      req.Reason,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "queueItem": item})
}

type bulkRequest struct {
	Items []services.BulkItem `json:"items"`
}

// BulkDecide godoc
// @Summary Apply a batch of decisions, reporting per-item outcomes
// @Description One bad item never aborts the batch; the response always carries a mixed result
// @Tags moderation
// @Accept json
// @Produce json
// @Success 200 {object} services.BulkResult
// @Router /admin/bulk-decision [post]
func (mc *ModerationController) BulkDecide(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	result, err := mc.Bulk.Process(req.Items, claims.UserID, claims.Roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
