package models

import (
	"time"

	"gorm.io/gorm"
)

type ScrapperProfile struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName    string         `gorm:"size:100;not null" json:"display_name"`
	VehicleType    string         `gorm:"size:50" json:"vehicle_type"` // CART, BIKE, TEMPO, TRUCK
	ServiceArea    string         `gorm:"size:255;index" json:"service_area"`
	Materials      string         `gorm:"type:text" json:"materials"` // comma-separated material kinds the scrapper accepts
	KYCVerified    bool           `gorm:"default:false;index" json:"kyc_verified"`
	KYCDocumentURL string         `gorm:"size:512" json:"kyc_document_url"`
	IsAvailable    bool           `gorm:"default:true;index" json:"is_available"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ScrapperProfile) TableName() string {
	return "scrapper_profiles"
}
