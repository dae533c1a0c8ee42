package repository

import (
	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/gorm"
)

// GormVolunteerRepository is a GORM implementation of VolunteerRepository
type GormVolunteerRepository struct {
	db *gorm.DB
}

// NewVolunteerRepository creates a new VolunteerRepository
func NewVolunteerRepository(db *gorm.DB) VolunteerRepository {
	return &GormVolunteerRepository{db: db}
}

// Create inserts an assignment. The unique index on (task_id, user_id) is
// the source of truth for the one-assignment invariant; violations come
// back as gorm.ErrDuplicatedKey for the service to translate.
func (r *GormVolunteerRepository) Create(v *models.Volunteer) error {
	return r.db.Create(v).Error
}

// FindByID finds an assignment by ID
func (r *GormVolunteerRepository) FindByID(id uint64) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByTaskAndUser finds an assignment for a (task, user) pair
func (r *GormVolunteerRepository) FindByTaskAndUser(taskID, userID uint64) (*models.Volunteer, error) {
	var v models.Volunteer
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByTask lists a task's assignments ordered by creation time
func (r *GormVolunteerRepository) ListByTask(taskID uint64) ([]models.Volunteer, error) {
	var volunteers []models.Volunteer
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&volunteers).Error; err != nil {
		return nil, err
	}
	return volunteers, nil
}

// DeleteByID removes an assignment. Deleting a missing ID affects zero
// rows and returns nil.
func (r *GormVolunteerRepository) DeleteByID(id uint64) error {
	return r.db.Delete(&models.Volunteer{}, id).Error
}
