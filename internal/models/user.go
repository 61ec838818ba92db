package models

import (
	"time"
)

// Plan türleri
type PlanType string

const (
	PlanFree PlanType = "free"
	PlanPro  PlanType = "pro"
	PlanTeam PlanType = "team"
)

type PlanLimits struct {
	ProjectLimit int // -1 = sınırsız
	PhotoLimit   int // aylık foto limiti, -1 = sınırsız
}

// Plan limitleri (landing'deki fiyatlandırma tablosuyla aynı)
var Plans = map[PlanType]PlanLimits{
	PlanFree: {ProjectLimit: 3, PhotoLimit: 50},
	PlanPro:  {ProjectLimit: -1, PhotoLimit: -1},
	PlanTeam: {ProjectLimit: -1, PhotoLimit: -1},
}

func (p PlanType) CanCreateProject(currentCount int) bool {
	limits, ok := Plans[p]
	if !ok {
		limits = Plans[PlanFree]
	}
	return limits.ProjectLimit == -1 || currentCount < limits.ProjectLimit
}

func (p PlanType) CanTakePhoto(currentCount int) bool {
	limits, ok := Plans[p]
	if !ok {
		limits = Plans[PlanFree]
	}
	return limits.PhotoLimit == -1 || currentCount < limits.PhotoLimit
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	FullName string   `json:"full_name" gorm:"not null"`
	Email    string   `json:"email" gorm:"unique;not null"`
	Password string   `json:"-" gorm:"not null"`
	Plan     PlanType `json:"plan" gorm:"type:varchar(16);not null;default:'free'"`

	// Google Drive bağlantısı (BYOS)
	GoogleDriveConnected bool   `json:"google_drive_connected" gorm:"default:false"`
	GoogleDriveFolderID  string `json:"google_drive_folder_id"`
	GoogleRefreshToken   string `json:"-"`

	// Stripe abonelik bilgileri
	StripeCustomerID     string `json:"-"`
	StripeSubscriptionID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
