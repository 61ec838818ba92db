package repository

import (
	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByStripeCustomerID(customerID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdatePassword(userID uint, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// SetDriveConnection, OAuth callback'inden sonra Drive bağlantısını kaydeder.
// google_drive_connected = true iken folder id her zaman dolu olmalı.
func (r *UserRepository) SetDriveConnection(userID uint, folderID, refreshToken string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"google_drive_connected": true,
		"google_drive_folder_id": folderID,
		"google_refresh_token":   refreshToken,
	}).Error
}

func (r *UserRepository) ClearDriveConnection(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"google_drive_connected": false,
		"google_drive_folder_id": "",
		"google_refresh_token":   "",
	}).Error
}

func (r *UserRepository) SetStripeCustomerID(userID uint, customerID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

func (r *UserRepository) SetPlan(userID uint, plan models.PlanType, subscriptionID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":                   plan,
		"stripe_subscription_id": subscriptionID,
	}).Error
}
