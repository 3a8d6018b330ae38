package services

import (
	"time"

	"github.com/pawprint-social/moderation-api/models"
)

// QueueFilter narrows a queue listing. Zero values mean "any".
type QueueFilter struct {
	QueueType string
	Status    string
	SortBy    string // priority, createdAt
	SortOrder string // asc, desc
}

// QueueCounts is the operator-facing alerting summary.
type QueueCounts struct {
	Queues       map[string]int64 `json:"queues"`
	TotalPending int64            `json:"totalPending"`
	UrgentCount  int64            `json:"urgentCount"`
	HasUrgent    bool             `json:"hasUrgent"`
}

// QueueRepository is the persistence surface for queue items. FindActive
// only considers non-terminal items; Transition applies a compare-and-set
// update guarded by the version column, writing the action row and the
// subject user (both optional) in the same transaction, and returns
// ErrConflict when the version no longer matches. A lost race must leave
// no trace: no action row, no user mutation.
type QueueRepository interface {
	GetByID(id uint) (*models.QueueItem, error)
	FindActive(contentType, contentID string) (*models.QueueItem, error)
	Create(item *models.QueueItem) error
	Save(item *models.QueueItem) error
	List(filter QueueFilter, page, pageSize int) ([]models.QueueItem, int64, error)
	CountActiveByQueueType() (map[string]int64, error)
	CountPending() (int64, error)
	CountActiveUrgent() (int64, error)
	Transition(item *models.QueueItem, fromVersion int64, action *models.ModerationAction, subject *models.User) error
}

// AddItemParams describes a direct queue insertion.
type AddItemParams struct {
	QueueType     string
	ContentType   string
	ContentID     string
	SubjectUserID uint
	Priority      string
	AssignedTo    *uint
	Notes         string
	ReporterID    uint
}

// QueueService owns queue item CRUD and the single-active-item invariant.
type QueueService struct {
	repo QueueRepository
	now  func() time.Time
}

func NewQueueService(repo QueueRepository) *QueueService {
	return &QueueService{repo: repo, now: time.Now}
}

// AddItem inserts a new queue item. At most one active item may exist per
// (contentType, contentID); a second insert fails with
// ErrDuplicateActiveItem rather than double-queueing the same content.
func (s *QueueService) AddItem(p AddItemParams) (*models.QueueItem, error) {
	if p.QueueType == "" || p.ContentType == "" || p.ContentID == "" {
		return nil, ErrValidation
	}
	if existing, err := s.repo.FindActive(p.ContentType, p.ContentID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateActiveItem
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityLow
	}
	item := &models.QueueItem{
		QueueType:     p.QueueType,
		ContentType:   p.ContentType,
		ContentID:     p.ContentID,
		SubjectUserID: p.SubjectUserID,
		Status:        models.StatusPending,
		Priority:      priority,
		AssignedTo:    p.AssignedTo,
		Notes:         p.Notes,
		ReportCount:   0,
	}
	if p.ReporterID != 0 {
		item.ReportedBy = []int64{int64(p.ReporterID)}
		item.ReportCount = 1
	}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Report ingests a user report. If the content is already queued and
// active, the reporter is added to the existing item and its priority
// escalates with the report count instead of failing; the same reporter
// reporting twice is a no-op.
func (s *QueueService) Report(queueType, contentType, contentID string, subjectUserID, reporterID uint, notes string) (*models.QueueItem, error) {
	if queueType == "" || contentType == "" || contentID == "" || reporterID == 0 {
		return nil, ErrValidation
	}

	existing, err := s.repo.FindActive(contentType, contentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return s.AddItem(AddItemParams{
			QueueType:     queueType,
			ContentType:   contentType,
			ContentID:     contentID,
			SubjectUserID: subjectUserID,
			ReporterID:    reporterID,
			Notes:         notes,
		})
	}

	for _, id := range existing.ReportedBy {
		if id == int64(reporterID) {
			return existing, nil
		}
	}
	existing.ReportedBy = append(existing.ReportedBy, int64(reporterID))
	existing.ReportCount = len(existing.ReportedBy)
	existing.Priority = escalatePriority(existing.Priority, existing.ReportCount)
	if err := s.repo.Save(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// escalatePriority bumps priority as independent reports accumulate.
// Priority never de-escalates.
func escalatePriority(current string, reportCount int) string {
	escalated := current
	switch {
	case reportCount >= 10:
		escalated = models.PriorityUrgent
	case reportCount >= 5:
		escalated = models.PriorityHigh
	case reportCount >= 2:
		escalated = models.PriorityMedium
	}
	if models.PriorityRank(escalated) < models.PriorityRank(current) {
		return current
	}
	return escalated
}

// ListItems returns a page of queue items. The default ordering is priority
// descending then createdAt ascending: urgent work surfaces first, and
// within a tier the queue is FIFO so old items cannot starve.
func (s *QueueService) ListItems(filter QueueFilter, page, pageSize int) ([]models.QueueItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repo.List(filter, page, pageSize)
}

// UpdateItem applies a partial update outside the decision path (notes,
// assignment, priority). Terminal items are immutable. The write is guarded
// by the version column so a stale update racing a decision cannot
// resurrect a just-closed item; the loser gets ErrConflict.
func (s *QueueService) UpdateItem(id uint, priority string, assignedTo *uint, notes *string) (*models.QueueItem, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if models.IsTerminalStatus(item.Status) {
		return nil, ErrConflict
	}
	fromVersion := item.Version
	if priority != "" {
		item.Priority = priority
	}
	if assignedTo != nil {
		item.AssignedTo = assignedTo
		if item.Status == models.StatusPending {
			item.Status = models.StatusInReview
		}
	}
	if notes != nil {
		item.Notes = *notes
	}
	if err := s.repo.Transition(item, fromVersion, nil, nil); err != nil {
		return nil, err
	}
	return item, nil
}

// Counts summarizes active queue depth per queue type for alerting.
func (s *QueueService) Counts() (*QueueCounts, error) {
	byType, err := s.repo.CountActiveByQueueType()
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountPending()
	if err != nil {
		return nil, err
	}
	urgent, err := s.repo.CountActiveUrgent()
	if err != nil {
		return nil, err
	}
	return &QueueCounts{
		Queues:       byType,
		TotalPending: pending,
		UrgentCount:  urgent,
		HasUrgent:    urgent > 0,
	}, nil
}
