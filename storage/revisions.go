package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/services"
)

// RevisionStore is the GORM-backed services.RevisionRepository.
type RevisionStore struct {
	DB *gorm.DB
}

func NewRevisionStore(db *gorm.DB) *RevisionStore {
	return &RevisionStore{DB: db}
}

func (s *RevisionStore) GetFlagged(id uint) (*models.FlaggedRevision, error) {
	var fr models.FlaggedRevision
	if err := s.DB.First(&fr, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fr, nil
}

func (s *RevisionStore) FindActiveFlagByRevision(revisionID uint) (*models.FlaggedRevision, error) {
	var fr models.FlaggedRevision
	err := s.DB.
		Where("revision_id = ?", revisionID).
		Where("status NOT IN ?", []string{models.FlagStatusApproved, models.FlagStatusRolledBack}).
		First(&fr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fr, nil
}

func (s *RevisionStore) CreateFlagged(fr *models.FlaggedRevision) error {
	return s.DB.Create(fr).Error
}

func (s *RevisionStore) GetRevision(id uint) (*models.WikiRevision, error) {
	var rev models.WikiRevision
	if err := s.DB.First(&rev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

// LatestStable returns the newest revision of the article with status
// stable, the rollback target.
func (s *RevisionStore) LatestStable(articleID uint) (*models.WikiRevision, error) {
	var rev models.WikiRevision
	err := s.DB.
		Where("article_id = ? AND status = ?", articleID, models.RevisionStable).
		Order("rev DESC").
		First(&rev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

func (s *RevisionStore) CountRevisions(articleID uint) (int64, error) {
	var n int64
	err := s.DB.Model(&models.WikiRevision{}).
		Where("article_id = ?", articleID).
		Count(&n).Error
	return n, err
}

// casFlagged updates the flagged revision guarded by its version column.
func casFlagged(tx *gorm.DB, fr *models.FlaggedRevision, fromVersion int64) error {
	res := tx.Model(&models.FlaggedRevision{}).
		Where("id = ? AND version = ?", fr.ID, fromVersion).
		Updates(map[string]interface{}{
			"status":      fr.Status,
			"assigned_to": fr.AssignedTo,
			"approved_by": fr.ApprovedBy,
			"approved_at": fr.ApprovedAt,
			"version":     fromVersion + 1,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrConflict
	}
	fr.Version = fromVersion + 1
	return nil
}

func (s *RevisionStore) Assign(fr *models.FlaggedRevision, fromVersion int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return casFlagged(tx, fr, fromVersion)
	})
}

func (s *RevisionStore) ApproveStable(fr *models.FlaggedRevision, fromVersion int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := casFlagged(tx, fr, fromVersion); err != nil {
			return err
		}
		err := tx.Model(&models.WikiRevision{}).
			Where("id = ?", fr.RevisionID).
			Updates(map[string]interface{}{
				"status":         models.RevisionStable,
				"approved_by_id": fr.ApprovedBy,
				"approved_at":    fr.ApprovedAt,
			}).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.WikiArticle{}).
			Where("id = ?", fr.ArticleID).
			Updates(map[string]interface{}{
				"stable_revision_id":  fr.RevisionID,
				"current_revision_id": fr.RevisionID,
			}).Error
	})
}

func (s *RevisionStore) Rollback(fr *models.FlaggedRevision, fromVersion int64, newRev *models.WikiRevision) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newRev).Error; err != nil {
			return err
		}
		if err := casFlagged(tx, fr, fromVersion); err != nil {
			return err
		}
		return tx.Model(&models.WikiArticle{}).
			Where("id = ?", fr.ArticleID).
			Updates(map[string]interface{}{
				"stable_revision_id":  newRev.ID,
				"current_revision_id": newRev.ID,
			}).Error
	})
}
