package models

import (
	"time"
)

// Moderation action types
const (
	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionWarn      = "warn"
	ActionMute      = "mute"
	ActionShadowban = "shadowban"
	ActionSuspend   = "suspend"
)

// KnownAction reports whether t is a recognized moderation action type.
func KnownAction(t string) bool {
	switch t {
	case ActionApprove, ActionReject, ActionWarn, ActionMute, ActionShadowban, ActionSuspend:
		return true
	}
	return false
}

// ModerationAction records one moderator decision against a queue item.
// Rows are never deleted; a queue item may accumulate several actions
// (e.g. an escalation followed by a final decision).
type ModerationAction struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	QueueItemID uint   `gorm:"not null;index" json:"queue_item_id"`
	ActorID     uint   `gorm:"not null;index" json:"actor_id"`
	Type        string `gorm:"not null;type:varchar(16)" json:"type"` // approve, reject, warn, mute, shadowban, suspend
	Reason      string `json:"reason"`
	Metadata    string `gorm:"type:jsonb" json:"metadata"`
}
