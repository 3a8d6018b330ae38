package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pawprint-social/moderation-api/models"
)

// UserStore is the GORM-backed services.UserRepository.
type UserStore struct {
	DB *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

func (s *UserStore) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// ExpertStore is the GORM-backed expert directory. Its presence is a
// deployment choice; services fall back to the null directory when it is
// not wired.
type ExpertStore struct {
	DB *gorm.DB
}

func NewExpertStore(db *gorm.DB) *ExpertStore {
	return &ExpertStore{DB: db}
}

func (s *ExpertStore) Lookup(userID uint) (*models.ExpertProfile, bool, error) {
	var profile models.ExpertProfile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, true, nil
		}
		return nil, true, err
	}
	return &profile, true, nil
}
