package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RecipientID   uint           `gorm:"not null;index" json:"recipient_id"`
	RecipientType string         `gorm:"size:20;not null;index" json:"recipient_type"` // USER | SCRAPPER
	Type          string         `gorm:"size:50;not null;index" json:"type"`
	Title         string         `gorm:"size:255" json:"title"`
	Message       string         `gorm:"type:text" json:"message"`
	Data          string         `gorm:"type:text" json:"data"` // JSON payload
	ReadAt        *time.Time     `json:"read_at"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
