package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Queue types
const (
	QueueNewPages        = "new-pages"
	QueueFlaggedHealth   = "flagged-health"
	QueueCOIEdits        = "coi-edits"
	QueueImageReviews    = "image-reviews"
	QueueReport          = "report"
	QueueFlaggedRevision = "flagged-revision"
)

// Queue item statuses
const (
	StatusPending    = "pending"
	StatusInReview   = "in_review"
	StatusTriaged    = "triaged"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
	StatusRolledBack = "rolled-back"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type QueueItem struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	QueueType     string         `gorm:"not null;index;type:varchar(32)" json:"queue_type"`
	ContentType   string         `gorm:"not null;index:idx_queue_content;type:varchar(32)" json:"content_type"` // post, comment, wiki-revision, user, image
	ContentID     string         `gorm:"not null;index:idx_queue_content" json:"content_id"`
	SubjectUserID uint           `gorm:"index" json:"subject_user_id"` // author of the reported content, if known
	Status        string         `gorm:"not null;default:'pending';index;type:varchar(16)" json:"status"` // pending, in_review, triaged, resolved, closed, rolled-back
	Priority      string         `gorm:"not null;default:'low';type:varchar(8)" json:"priority"`          // low, medium, high, urgent
	AssignedTo    *uint          `json:"assigned_to"`
	Notes         string         `json:"notes"`
	ReportedBy    pq.Int64Array  `gorm:"type:bigint[]" json:"reported_by"`
	ReportCount   int            `gorm:"not null;default:0" json:"report_count"`
	ReviewedAt    *time.Time     `json:"reviewed_at"`
	Version       int64          `gorm:"not null;default:0" json:"version"`
}

// IsTerminalStatus reports whether a queue item in the given status is
// immutable (resolved, closed, rolled-back).
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusResolved, StatusClosed, StatusRolledBack:
		return true
	}
	return false
}

// PriorityRank maps a priority to its sort weight. Urgent items surface
// first; unknown values sort with low.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}
