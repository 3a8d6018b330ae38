package models

import (
	"time"

	"gorm.io/gorm"
)

// Flagged revision statuses
const (
	FlagStatusFlagged    = "flagged"
	FlagStatusAssigned   = "assigned"
	FlagStatusApproved   = "approved"
	FlagStatusRolledBack = "rolled-back"
)

// Flag categories
const (
	FlagCategoryHealth     = "health"
	FlagCategoryRegulatory = "regulatory"
	FlagCategoryCOI        = "coi"
	FlagCategoryNewPage    = "new-page"
	FlagCategoryImage      = "image"
)

// FlaggedRevision tracks one wiki revision through the review state
// machine: flagged -> assigned -> approved, or rolled-back from either
// non-terminal state.
type FlaggedRevision struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	ArticleID  uint   `gorm:"not null;index" json:"article_id"`
	RevisionID uint   `gorm:"not null;index" json:"revision_id"`
	FlaggedBy  uint   `json:"flagged_by"`
	FlagReason string `gorm:"not null" json:"flag_reason"`
	Category   string `gorm:"not null;type:varchar(16)" json:"category"` // health, regulatory, coi, new-page, image
	Priority   string `gorm:"not null;default:'medium';type:varchar(8)" json:"priority"`
	Status     string `gorm:"not null;default:'flagged';index;type:varchar(16)" json:"status"` // flagged, assigned, approved, rolled-back
	Notes      string `json:"notes"`

	AssignedTo *uint      `json:"assigned_to"`
	ApprovedBy *uint      `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`
	Version    int64      `gorm:"not null;default:0" json:"version"`
}

// IsTerminalFlagStatus reports whether a flagged revision can no longer
// transition.
func IsTerminalFlagStatus(status string) bool {
	return status == FlagStatusApproved || status == FlagStatusRolledBack
}
