package models

import (
	"time"

	"gorm.io/gorm"
)

// Account statuses
const (
	AccountActive    = "active"
	AccountSuspended = "suspended"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`

	Role   Role `json:"role" gorm:"foreignKey:RoleID"`
	RoleID uint `json:"role_id"`

	AccountStatus string     `gorm:"not null;default:'active';type:varchar(16)" json:"account_status"` // active, suspended
	WarningCount  int        `gorm:"not null;default:0" json:"warning_count"`
	MutedUntil    *time.Time `json:"muted_until"`
	ShadowBanned  bool       `gorm:"not null;default:false" json:"-"` // never exposed to the actor
	SuspendedAt   *time.Time `json:"suspended_at"`
	IsVerified    bool       `json:"is_verified"`
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"` // admin, moderator, expert, user
}

// Expert verification statuses
const (
	ExpertPending  = "pending"
	ExpertVerified = "verified"
	ExpertRevoked  = "revoked"
)

// ExpertProfile backs the expert directory. Verification can expire or be
// revoked, so callers must treat it as a live lookup, never a cached flag.
type ExpertProfile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID    uint       `gorm:"unique;not null" json:"user_id"`
	Status    string     `gorm:"not null;default:'pending';type:varchar(16)" json:"status"` // pending, verified, revoked
	Specialty string     `json:"specialty"`
	ExpiresAt *time.Time `json:"expires_at"`
}
