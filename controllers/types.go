package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/pawprint-social/moderation-api/services"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

// respondError maps a service error onto its HTTP status and stable code.
func respondError(c *gin.Context, err error) {
	c.JSON(services.HTTPStatus(err), gin.H{
		"error": err.Error(),
		"code":  services.ErrorCode(err),
	})
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return int(pages)
}
