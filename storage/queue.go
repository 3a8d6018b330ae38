package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/services"
)

var terminalStatuses = []string{models.StatusResolved, models.StatusClosed, models.StatusRolledBack}

// QueueStore is the GORM-backed services.QueueRepository.
type QueueStore struct {
	DB *gorm.DB
}

func NewQueueStore(db *gorm.DB) *QueueStore {
	return &QueueStore{DB: db}
}

func (s *QueueStore) GetByID(id uint) (*models.QueueItem, error) {
	var item models.QueueItem
	if err := s.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *QueueStore) FindActive(contentType, contentID string) (*models.QueueItem, error) {
	var item models.QueueItem
	err := s.DB.
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Where("status NOT IN ?", terminalStatuses).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *QueueStore) Create(item *models.QueueItem) error {
	return s.DB.Create(item).Error
}

func (s *QueueStore) Save(item *models.QueueItem) error {
	return s.DB.Save(item).Error
}

// PriorityCaseSQL builds the ORDER BY expression that ranks priorities, so
// the SQL ordering and models.PriorityRank can never drift apart.
func PriorityCaseSQL() string {
	var b strings.Builder
	b.WriteString("CASE priority")
	for _, p := range []string{models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", p, models.PriorityRank(p))
	}
	b.WriteString(" ELSE 1 END")
	return b.String()
}

func (s *QueueStore) List(filter services.QueueFilter, page, pageSize int) ([]models.QueueItem, int64, error) {
	query := s.DB.Model(&models.QueueItem{})
	if filter.QueueType != "" {
		query = query.Where("queue_type = ?", filter.QueueType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := filter.SortOrder
	if order != "asc" && order != "desc" {
		order = ""
	}
	switch filter.SortBy {
	case "createdAt":
		if order == "" {
			order = "asc"
		}
		query = query.Order("created_at " + order)
	case "priority":
		if order == "" {
			order = "desc"
		}
		query = query.Order(PriorityCaseSQL() + " " + order).Order("created_at ASC")
	default:
		// Default fairness ordering: urgent first, FIFO within a tier.
		query = query.Order(PriorityCaseSQL() + " DESC").Order("created_at ASC")
	}

	var items []models.QueueItem
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *QueueStore) CountActiveByQueueType() (map[string]int64, error) {
	type row struct {
		QueueType string
		Count     int64
	}
	var rows []row
	err := s.DB.Model(&models.QueueItem{}).
		Select("queue_type, COUNT(*) AS count").
		Where("status NOT IN ?", terminalStatuses).
		Group("queue_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.QueueType] = r.Count
	}
	return counts, nil
}

func (s *QueueStore) CountPending() (int64, error) {
	var n int64
	err := s.DB.Model(&models.QueueItem{}).
		Where("status = ?", models.StatusPending).
		Count(&n).Error
	return n, err
}

func (s *QueueStore) CountActiveUrgent() (int64, error) {
	var n int64
	err := s.DB.Model(&models.QueueItem{}).
		Where("priority = ?", models.PriorityUrgent).
		Where("status NOT IN ?", terminalStatuses).
		Count(&n).Error
	return n, err
}

// Transition applies the CAS item update, the action row and the subject
// user mutation in one transaction. Two concurrent writers on the same item
// race on the version column; the loser sees zero rows updated and gets
// ErrConflict before the action or the user is touched.
func (s *QueueStore) Transition(item *models.QueueItem, fromVersion int64, action *models.ModerationAction, subject *models.User) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QueueItem{}).
			Where("id = ? AND version = ?", item.ID, fromVersion).
			Updates(map[string]interface{}{
				"status":      item.Status,
				"priority":    item.Priority,
				"notes":       item.Notes,
				"assigned_to": item.AssignedTo,
				"reviewed_at": item.ReviewedAt,
				"version":     fromVersion + 1,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return services.ErrConflict
		}
		item.Version = fromVersion + 1
		if action != nil {
			if err := tx.Create(action).Error; err != nil {
				return err
			}
		}
		if subject != nil {
			if err := tx.Save(subject).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
