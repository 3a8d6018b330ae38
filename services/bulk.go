package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pawprint-social/moderation-api/models"
)

// MaxBulkItems caps a single bulk call.
const MaxBulkItems = 1000

// BulkItem is one decision inside a batch.
type BulkItem struct {
	QueueItemID   uint           `json:"queueItemId"`
	Action        string         `json:"action"`
	PerformedBy   uint           `json:"performedBy"`
	Justification string         `json:"justification"`
	Metadata      ActionMetadata `json:"metadata"`
}

// BulkFailure reports one failed item, in input order.
type BulkFailure struct {
	QueueItemID uint   `json:"queueItemId"`
	Error       string `json:"error"`
}

// BulkResult is the mixed outcome of a batch. The batch as a whole only
// fails on structural problems; business failures land in Failed.
type BulkResult struct {
	Processed int           `json:"processed"`
	Succeeded int           `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// Decider applies a single moderation decision.
type Decider interface {
	Decide(in DecisionInput) (*models.QueueItem, error)
}

// BulkProcessor runs N independent decisions as one client-facing call.
// One bad row must never block the rest of a triage batch, so items are
// processed in isolation and the result is always mixed.
type BulkProcessor struct {
	engine Decider
	audit  AuditRecorder
}

func NewBulkProcessor(engine Decider, audit AuditRecorder) *BulkProcessor {
	return &BulkProcessor{engine: engine, audit: audit}
}

// Process validates the batch structurally, then runs every item through
// the decision engine regardless of earlier failures. Output failures keep
// input order for operator traceability.
func (p *BulkProcessor) Process(items []BulkItem, actorID uint, actorRoles []string) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrValidation)
	}
	if len(items) > MaxBulkItems {
		return nil, fmt.Errorf("%w: batch exceeds %d items", ErrValidation, MaxBulkItems)
	}
	for i, item := range items {
		if item.QueueItemID == 0 || item.Action == "" || item.PerformedBy == 0 || item.Justification == "" {
			return nil, fmt.Errorf("%w: item %d is missing required fields", ErrValidation, i)
		}
	}

	result := &BulkResult{Failed: []BulkFailure{}}
	for _, item := range items {
		result.Processed++
		_, err := p.engine.Decide(DecisionInput{
			QueueItemID: item.QueueItemID,
			Action:      item.Action,
			ActorID:     item.PerformedBy,
			ActorRoles:  actorRoles,
			Reason:      item.Justification,
			Metadata:    item.Metadata,
		})
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				QueueItemID: item.QueueItemID,
				Error:       ErrorCode(err),
			})
			continue
		}
		result.Succeeded++
	}

	p.audit.Record(models.AuditLog{
		ActorID:    actorID,
		Action:     models.AuditModerationBulk,
		TargetType: "bulk_operation",
		TargetID:   uuid.New().String(),
		Metadata: fmt.Sprintf(`{"processed":%d,"succeeded":%d,"failed":%d}`,
			result.Processed, result.Succeeded, len(result.Failed)),
	})
	return result, nil
}
