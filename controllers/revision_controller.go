package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/utils"
)

type RevisionController struct {
	Workflow *services.RevisionWorkflow
}

func NewRevisionController(workflow *services.RevisionWorkflow) *RevisionController {
	return &RevisionController{Workflow: workflow}
}

func revisionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, services.ErrValidation)
		return 0, false
	}
	return uint(id), true
}

type flagRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Category string `json:"category" binding:"required"`
	Priority string `json:"priority"`
	Notes    string `json:"notes"`
}

// Flag godoc
// @Summary Flag a wiki revision for review
// @Tags wiki
// @Accept json
// @Produce json
// @Param id path int true "Revision ID"
// @Router /wiki/revisions/{id}/flag [post]
func (rc *RevisionController) Flag(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := revisionID(c)
	if !ok {
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	fr, err := rc.Workflow.Flag(services.FlagParams{
		RevisionID: id,
		FlaggedBy:  claims.UserID,
		Reason:     req.Reason,
		Category:   req.Category,
		Priority:   req.Priority,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: fr})
}

// Approve godoc
// @Summary Approve a flagged revision as stable
// @Tags wiki
// @Produce json
// @Param id path int true "Flagged revision ID"
// @Router /admin/revisions/{id}/approve [post]
func (rc *RevisionController) Approve(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := revisionID(c)
	if !ok {
		return
	}

	fr, err := rc.Workflow.Approve(id, claims.UserID, claims.Roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: fr})
}

type assignRequest struct {
	ExpertID uint `json:"expertId" binding:"required"`
}

// Assign godoc
// @Summary Assign a flagged revision to a verified expert
// @Tags wiki
// @Accept json
// @Produce json
// @Param id path int true "Flagged revision ID"
// @Router /admin/revisions/{id}/assign [post]
func (rc *RevisionController) Assign(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := revisionID(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	fr, err := rc.Workflow.Assign(id, req.ExpertID, claims.UserID, claims.Roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: fr})
}

type rollbackRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Rollback godoc
// @Summary Roll an article back to its last stable revision
// @Description Appends a new pre-approved revision copying the stable content; history is never rewritten
// @Tags wiki
// @Accept json
// @Produce json
// @Param id path int true "Flagged revision ID"
// @Router /admin/revisions/{id}/rollback [post]
func (rc *RevisionController) Rollback(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	id, ok := revisionID(c)
	if !ok {
		return
	}

	var req rollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrValidation)
		return
	}

	rev, err := rc.Workflow.Rollback(id, req.Reason, claims.UserID, claims.Roles)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: rev})
}
