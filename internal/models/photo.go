package models

import (
	"time"
)

type Photo struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProjectID uint `json:"project_id" gorm:"not null;index"`
	UserID    uint `json:"user_id" gorm:"not null"`

	FileName    string `json:"file_name" gorm:"not null"`
	DriveFileID string `json:"drive_file_id"`
	DriveLink   string `json:"drive_link"`

	// Drive linkleri galeri için yavaş kaldığından R2'de küçük bir
	// thumbnail kopyası tutulur (best-effort, boş olabilir)
	ThumbnailKey string `json:"thumbnail_key"`
	ThumbnailURL string `json:"thumbnail_url"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`

	CapturedAt    time.Time `json:"captured_at"`
	AIDescription string    `json:"ai_description"`
	CreatedAt     time.Time `json:"created_at"`
}

// Upload pipeline girdisi. Kullanıcı kimliği JWT'den gelir, body'deki
// alanlar PWA'nın capture ekranından.
type UploadPhotoRequest struct {
	ProjectID uint   `json:"project_id" validate:"required"`
	ImageData string `json:"image_data" validate:"required"` // base64 data URL
	FileName  string `json:"file_name" validate:"required"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`

	// Cihaz saatine göre çekim anı (boşsa sunucu saati)
	CapturedAt *time.Time `json:"captured_at"`

	// true ise client overlay'i zaten raster'a işlemiştir, sunucu
	// ikinci kez damga basmaz
	Watermarked bool `json:"watermarked"`

	AIDescription string `json:"ai_description"`
}

type UploadPhotoResponse struct {
	Photo     Photo  `json:"photo"`
	DriveLink string `json:"drive_link"`
}

type AnalyzeRequest struct {
	ImageData string `json:"image_data" validate:"required"`
}

type AnalyzeResponse struct {
	FileName    string `json:"file_name"`
	Description string `json:"description"`
}
