package models

import (
	"time"

	"scrapto/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PickupRequest struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	ScrapperID *uint  `gorm:"index" json:"scrapper_id"`
	Material   string `gorm:"size:50;not null;index" json:"material"`
	Status     string `gorm:"size:20;not null;index" json:"status"` // REQUESTED, ACCEPTED, COLLECTED, CANCELLED

	// Estimate captured at submission; rate is snapshotted so later rate-card
	// edits don't change what the user was quoted.
	EstimatedWeightKg decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"estimated_weight_kg"`
	RatePerKg         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"rate_per_kg"`
	EstimatedAmount   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"estimated_amount"`
	ActualWeightKg    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"actual_weight_kg"`
	FinalAmount       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"final_amount"`

	Address     string         `gorm:"size:512;not null" json:"address"`
	Notes       string         `gorm:"type:text" json:"notes"`
	Photos      string         `gorm:"type:text" json:"photos"` // JSON array of image URLs
	AcceptedAt  *time.Time     `json:"accepted_at"`
	CollectedAt *time.Time     `json:"collected_at"`
	CancelledAt *time.Time     `json:"cancelled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User     User  `gorm:"foreignKey:UserID" json:"-"`
	Scrapper *User `gorm:"foreignKey:ScrapperID" json:"-"`
}

func (PickupRequest) TableName() string {
	return "pickup_requests"
}

func (p *PickupRequest) IsOpen() bool { return p.Status == domain.PickupStatusRequested }
