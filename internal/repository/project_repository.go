package repository

import (
	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *models.Project) (*models.Project, error) {
	result := r.db.Create(project)
	if result.Error != nil {
		return nil, result.Error
	}
	return project, nil
}

func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) GetUserProjects(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("user_id = ?", userID).Order("updated_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Delete(&models.Project{}, id).Error
}

// SetDriveFolderID, klasör referansını yalnızca hâlâ boşken yazar.
// İki cihaz aynı anda ilk fotoğrafı yüklerse yalnızca biri kazanır;
// kaybeden kazananın id'sini tekrar okuyup onu kullanmalı.
func (r *ProjectRepository) SetDriveFolderID(projectID uint, folderID string) (bool, error) {
	result := r.db.Model(&models.Project{}).
		Where("id = ? AND (drive_folder_id IS NULL OR drive_folder_id = '')", projectID).
		Update("drive_folder_id", folderID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementPhotoCount sayacı tek statement ile artırır; atomiklik
// veritabanına bırakılır.
func (r *ProjectRepository) IncrementPhotoCount(projectID uint) error {
	return r.db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("photo_count", gorm.Expr("photo_count + 1")).Error
}

func (r *ProjectRepository) DecrementPhotoCount(projectID uint) error {
	return r.db.Model(&models.Project{}).Where("id = ? AND photo_count > 0", projectID).
		Update("photo_count", gorm.Expr("photo_count - 1")).Error
}
