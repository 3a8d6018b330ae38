package models

import (
	"time"
)

// Audit action keys are namespaced strings, e.g. "moderation:approve"
// or "wiki:rollback".
const (
	AuditModerationPrefix  = "moderation:"
	AuditModerationBulk    = "moderation:bulk"
	AuditWikiApproveStable = "wiki:approve-stable"
	AuditWikiAssign        = "wiki:assign"
	AuditWikiRollback      = "wiki:rollback"
)

// AuditLog is the append-only compliance record. Rows are only ever
// inserted, and must stay queryable by target and by actor independently.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ActorID    uint   `gorm:"not null;index" json:"actor_id"`
	Action     string `gorm:"not null;index;type:varchar(64)" json:"action"`
	TargetType string `gorm:"not null;index:idx_audit_target;type:varchar(32)" json:"target_type"`
	TargetID   string `gorm:"not null;index:idx_audit_target" json:"target_id"`
	Reason     string `json:"reason"`
	Metadata   string `gorm:"type:jsonb" json:"metadata"`
}

// AuditQueueEntry holds an audit write that could not reach audit_logs.
// Entries are retried by the flush worker and dropped after too many
// attempts; CreatedAt is carried over so the original timestamp survives.
type AuditQueueEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ActorID     uint       `gorm:"not null" json:"actor_id"`
	Action      string     `gorm:"not null;type:varchar(64)" json:"action"`
	TargetType  string     `gorm:"not null;type:varchar(32)" json:"target_type"`
	TargetID    string     `gorm:"not null" json:"target_id"`
	Reason      string     `json:"reason"`
	Metadata    string     `gorm:"type:jsonb" json:"metadata"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastAttempt *time.Time `json:"last_attempt"`
}
