package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/utils"
)

func newTestBulk(t *testing.T) (*BulkProcessor, *fakeQueueRepo, *fakeAudit) {
	t.Helper()
	users := newFakeUserRepo(&models.User{ID: 7, AccountStatus: models.AccountActive})
	queue := newFakeQueueRepo()
	queue.users = users
	audit := &fakeAudit{}
	engine := NewDecisionEngine(queue, users, audit)
	return NewBulkProcessor(engine, audit), queue, audit
}

func bulkItem(id uint, action string) BulkItem {
	return BulkItem{QueueItemID: id, Action: action, PerformedBy: 3, Justification: "batch triage"}
}

func TestBulk_RejectsEmptyBatch(t *testing.T) {
	bulk, _, _ := newTestBulk(t)
	_, err := bulk.Process(nil, 3, []string{utils.RoleModerator})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBulk_RejectsStructurallyInvalidItems(t *testing.T) {
	bulk, queue, _ := newTestBulk(t)
	a := seedItem(queue, models.StatusPending)

	// A missing justification fails the whole batch up front; nothing runs.
	_, err := bulk.Process([]BulkItem{
		bulkItem(a.ID, models.ActionApprove),
		{QueueItemID: a.ID, Action: models.ActionReject, PerformedBy: 3},
	}, 3, []string{utils.RoleModerator})
	assert.ErrorIs(t, err, ErrValidation)

	stored, _ := queue.GetByID(a.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestBulk_PartialFailure(t *testing.T) {
	bulk, queue, _ := newTestBulk(t)
	a := seedItem(queue, models.StatusPending)
	b := seedItem(queue, models.StatusPending)

	result, err := bulk.Process([]BulkItem{
		bulkItem(a.ID, models.ActionApprove),
		bulkItem(9999, models.ActionApprove), // nonexistent
		bulkItem(b.ID, models.ActionReject),
	}, 3, []string{utils.RoleModerator})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, uint(9999), result.Failed[0].QueueItemID)
	assert.Equal(t, "NOT_FOUND", result.Failed[0].Error)

	// The bad row did not stop the later item.
	stored, _ := queue.GetByID(b.ID)
	assert.Equal(t, models.StatusClosed, stored.Status)
}

func TestBulk_FailuresKeepInputOrder(t *testing.T) {
	bulk, queue, _ := newTestBulk(t)
	a := seedItem(queue, models.StatusPending)

	result, err := bulk.Process([]BulkItem{
		bulkItem(9997, models.ActionApprove),
		bulkItem(a.ID, "bogus"),
		bulkItem(9998, models.ActionApprove),
	}, 3, []string{utils.RoleModerator})
	require.NoError(t, err)

	require.Len(t, result.Failed, 3)
	assert.Equal(t, uint(9997), result.Failed[0].QueueItemID)
	assert.Equal(t, "NOT_FOUND", result.Failed[0].Error)
	assert.Equal(t, a.ID, result.Failed[1].QueueItemID)
	assert.Equal(t, "INVALID_ACTION", result.Failed[1].Error)
	assert.Equal(t, uint(9998), result.Failed[2].QueueItemID)
}

func TestBulk_RecordsBatchAudit(t *testing.T) {
	bulk, queue, audit := newTestBulk(t)
	a := seedItem(queue, models.StatusPending)

	_, err := bulk.Process([]BulkItem{bulkItem(a.ID, models.ActionApprove)}, 3, []string{utils.RoleModerator})
	require.NoError(t, err)

	entries := audit.all()
	// One per-item entry from the engine plus the batch summary.
	require.Len(t, entries, 2)
	assert.Equal(t, models.AuditModerationBulk, entries[1].Action)
	assert.NotEmpty(t, entries[1].TargetID)
}
