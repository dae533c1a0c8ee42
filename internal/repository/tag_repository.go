package repository

import (
	"github.com/openopps/openopps-api/internal/models"
	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// FindByIDs finds tags by their IDs
func (r *GormTagRepository) FindByIDs(ids []uint64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByKind lists all tags of a kind
func (r *GormTagRepository) ListByKind(kind models.TagKind) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Where("kind = ?", kind).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// FindOrCreate finds a tag by (kind, name) or creates it
func (r *GormTagRepository) FindOrCreate(kind models.TagKind, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where(models.Tag{Kind: kind, Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
