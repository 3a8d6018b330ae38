package storage

import (
	"gorm.io/gorm"

	"github.com/pawprint-social/moderation-api/models"
)

// AuditStore is the GORM-backed services.AuditRepository. audit_logs rows
// are insert-only; there is deliberately no update or delete path.
type AuditStore struct {
	DB *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{DB: db}
}

func (s *AuditStore) Insert(entry *models.AuditLog) error {
	return s.DB.Create(entry).Error
}

func (s *AuditStore) Enqueue(entry *models.AuditQueueEntry) error {
	return s.DB.Create(entry).Error
}

func (s *AuditStore) PendingQueue(maxAttempts int) ([]models.AuditQueueEntry, error) {
	var entries []models.AuditQueueEntry
	err := s.DB.
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (s *AuditStore) DeleteQueued(id uint) error {
	return s.DB.Delete(&models.AuditQueueEntry{}, id).Error
}

func (s *AuditStore) BumpAttempts(entry *models.AuditQueueEntry) error {
	return s.DB.Model(entry).
		Updates(map[string]interface{}{
			"attempts":     entry.Attempts,
			"last_attempt": entry.LastAttempt,
		}).Error
}

func (s *AuditStore) PurgeExhausted(maxAttempts int) (int64, error) {
	res := s.DB.Where("attempts >= ?", maxAttempts).Delete(&models.AuditQueueEntry{})
	return res.RowsAffected, res.Error
}

func (s *AuditStore) ByActor(actorID uint, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.DB.Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (s *AuditStore) ByTarget(targetType, targetID string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.DB.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (s *AuditStore) ByAction(action string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.DB.Where("action = ?", action).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
