package repository

import (
	"time"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) GetByProjectID(projectID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.db.Where("project_id = ?", projectID).
		Order("captured_at DESC").Find(&photos).Error
	return photos, err
}

func (r *PhotoRepository) Delete(id uint) error {
	return r.db.Delete(&models.Photo{}, id).Error
}

func (r *PhotoRepository) CountByProjectID(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// CountByUserSince aylık plan limiti için kullanılır
func (r *PhotoRepository) CountByUserSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Photo{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
