package services

import (
	"encoding/json"
	"time"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/utils"
)

// ActionMetadata carries the structured extras of a moderation action.
type ActionMetadata struct {
	MuteDays         int  `json:"muteDays,omitempty"`
	EscalateToSenior bool `json:"escalateToSenior,omitempty"`
}

// DecisionInput is a single moderator action against a queue item.
type DecisionInput struct {
	QueueItemID uint
	Action      string
	ActorID     uint
	ActorRoles  []string
	Reason      string
	Metadata    ActionMetadata
}

// DecisionOutcome is the derived effect of an action on the queue item:
// either the case closes, or it stays open in triage for senior review.
// Computing it once up front keeps the escalation rule in one place.
type DecisionOutcome struct {
	Close        bool
	TriageReason string
}

func (o DecisionOutcome) status() string {
	if o.Close {
		return models.StatusClosed
	}
	return models.StatusTriaged
}

// deriveOutcome applies the status rules: approve, reject and suspend close
// the case, every other action leaves it triaged — and escalation keeps the
// case open no matter what the underlying action would do.
func deriveOutcome(action string, meta ActionMetadata) DecisionOutcome {
	if meta.EscalateToSenior {
		return DecisionOutcome{Close: false, TriageReason: "escalated to senior review"}
	}
	switch action {
	case models.ActionApprove, models.ActionReject, models.ActionSuspend:
		return DecisionOutcome{Close: true}
	default:
		return DecisionOutcome{Close: false, TriageReason: "awaiting final review"}
	}
}

// UserRepository is the slice of the content store the engine needs for
// penalty side effects.
type UserRepository interface {
	GetUser(id uint) (*models.User, error)
	SaveUser(user *models.User) error
}

// AuditRecorder is the fire-and-forget audit side-channel.
type AuditRecorder interface {
	Record(entry models.AuditLog)
}

// DecisionEngine validates and applies moderator actions to queue items.
type DecisionEngine struct {
	queue QueueRepository
	users UserRepository
	audit AuditRecorder
	now   func() time.Time
}

func NewDecisionEngine(queue QueueRepository, users UserRepository, audit AuditRecorder) *DecisionEngine {
	return &DecisionEngine{queue: queue, users: users, audit: audit, now: time.Now}
}

// Decide applies one action. Validation fails fast in a fixed order: role,
// then action type, then action-specific rules. The status transition, the
// action row and any user penalty are applied atomically with a
// compare-and-set on the item version; a lost race returns ErrConflict and
// leaves the subject user untouched. The audit write is attempted exactly
// once and never fails the decision.
func (e *DecisionEngine) Decide(in DecisionInput) (*models.QueueItem, error) {
	if !utils.HasAnyRole(in.ActorRoles, utils.RoleAdmin, utils.RoleModerator) {
		return nil, ErrForbidden
	}
	if !models.KnownAction(in.Action) {
		return nil, ErrInvalidAction
	}
	if in.Action == models.ActionMute && in.Metadata.MuteDays < 1 {
		return nil, ErrValidation
	}

	item, err := e.queue.GetByID(in.QueueItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if models.IsTerminalStatus(item.Status) {
		return nil, ErrConflict
	}

	subject, err := e.preparePenalty(in, item)
	if err != nil {
		return nil, err
	}

	outcome := deriveOutcome(in.Action, in.Metadata)
	fromVersion := item.Version
	now := e.now()
	item.Status = outcome.status()
	item.ReviewedAt = &now
	if outcome.TriageReason != "" {
		// Keep whatever the operators already wrote on the item.
		if item.Notes == "" {
			item.Notes = outcome.TriageReason
		} else {
			item.Notes = item.Notes + "\n" + outcome.TriageReason
		}
	}

	action := &models.ModerationAction{
		QueueItemID: item.ID,
		ActorID:     in.ActorID,
		Type:        in.Action,
		Reason:      in.Reason,
		Metadata:    marshalMetadata(in.Metadata),
	}
	if err := e.queue.Transition(item, fromVersion, action, subject); err != nil {
		return nil, err
	}

	e.audit.Record(models.AuditLog{
		ActorID:    in.ActorID,
		Action:     models.AuditModerationPrefix + in.Action,
		TargetType: item.ContentType,
		TargetID:   item.ContentID,
		Reason:     in.Reason,
		Metadata:   marshalMetadata(in.Metadata),
	})
	return item, nil
}

// preparePenalty loads the subject user and applies the punitive mutation
// in memory only. The user is persisted inside the same transaction as the
// status transition, so a decision that loses the version race or fails in
// storage never leaves a suspended or muted user behind without its action
// row; the caller sees "complete or fail", never a half-applied decision.
func (e *DecisionEngine) preparePenalty(in DecisionInput, item *models.QueueItem) (*models.User, error) {
	switch in.Action {
	case models.ActionWarn, models.ActionMute, models.ActionShadowban, models.ActionSuspend:
	default:
		return nil, nil
	}
	if item.SubjectUserID == 0 {
		return nil, nil
	}

	user, err := e.users.GetUser(item.SubjectUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := e.now()
	switch in.Action {
	case models.ActionWarn:
		user.WarningCount++
	case models.ActionMute:
		until := now.Add(time.Duration(in.Metadata.MuteDays) * 24 * time.Hour)
		user.MutedUntil = &until
	case models.ActionShadowban:
		user.ShadowBanned = true
	case models.ActionSuspend:
		user.AccountStatus = models.AccountSuspended
		user.SuspendedAt = &now
	}
	return user, nil
}

func marshalMetadata(meta ActionMetadata) string {
	if meta == (ActionMetadata{}) {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}
