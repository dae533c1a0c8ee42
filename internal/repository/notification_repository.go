package repository

import (
	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a rendered notification
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// ListByRecipient lists notifications sent to a recipient
func (r *GormNotificationRepository) ListByRecipient(recipient string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("recipient = ?", recipient).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
