package models

import (
	"time"
)

type Project struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"not null"`
	ClientName  string `json:"client_name" gorm:"not null"`
	Description string `json:"description"`

	// Drive klasör referansı: ilk foto yüklemesinde bir kez atanır,
	// sonrasında değişmez kabul edilir.
	DriveFolderID string `json:"drive_folder_id"`

	// Denormalize foto sayacı, Photo satırlarıyla senkron tutulur
	PhotoCount int `json:"photo_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	ClientName  string `json:"client_name" validate:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	ClientName  *string `json:"client_name"`
	Description *string `json:"description"`
}
