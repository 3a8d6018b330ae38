package models

import (
	"time"

	"gorm.io/gorm"
)

// Wiki revision statuses
const (
	RevisionDraft   = "draft"
	RevisionPending = "pending"
	RevisionStable  = "stable"
)

type WikiArticle struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Title    string `gorm:"not null" json:"title"`
	Slug     string `gorm:"unique;not null" json:"slug"`
	Category string `gorm:"type:varchar(16)" json:"category"` // health, regulatory, general

	CurrentRevisionID *uint `json:"current_revision_id"`
	StableRevisionID  *uint `json:"stable_revision_id"`
}

// WikiRevision is an immutable snapshot of article content. Revisions are
// never edited or deleted; a rollback appends a new revision copied from
// the last stable one.
type WikiRevision struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ArticleID   uint   `gorm:"not null;index" json:"article_id"`
	Rev         int    `gorm:"not null" json:"rev"` // 1-based, dense per article
	AuthorID    uint   `gorm:"not null" json:"author_id"`
	ContentJSON string `gorm:"type:jsonb" json:"content_json"`
	InfoboxJSON string `gorm:"type:jsonb" json:"infobox_json"`
	Status      string `gorm:"not null;default:'draft';index;type:varchar(8)" json:"status"` // draft, pending, stable

	ApprovedByID *uint      `json:"approved_by_id"`
	ApprovedAt   *time.Time `json:"approved_at"`
}
