package repository

import (
	"errors"

	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID with optional preloading
func (r *GormUserRepository) FindByID(id uint64, preload ...string) (*models.User, error) {
	var user models.User
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ReplaceTags replaces the user's tag associations
func (r *GormUserRepository) ReplaceTags(user *models.User, tags []models.Tag) error {
	return r.db.Model(user).Association("Tags").Replace(tags)
}

// FindActiveSetting finds the active setting row for a key, if any
func (r *GormUserRepository) FindActiveSetting(userID uint64, key string) (*models.UserSetting, error) {
	var setting models.UserSetting
	err := r.db.Where("user_id = ? AND key = ? AND is_active = ?", userID, key, true).
		Order("created_at DESC").
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SaveSetting deactivates any existing row for the key and stores the new
// value within a single transaction.
func (r *GormUserRepository) SaveSetting(userID uint64, key, value string) (*models.UserSetting, error) {
	setting := &models.UserSetting{
		UserID:   userID,
		Key:      key,
		Value:    value,
		IsActive: true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.UserSetting{}).
			Where("user_id = ? AND key = ? AND is_active = ?", userID, key, true).
			Update("is_active", false).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(setting).Error
	})
	if err != nil {
		return nil, err
	}

	return setting, nil
}
