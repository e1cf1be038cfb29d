package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ScrapRate is the admin-managed rate card: price per kg for one material kind.
type ScrapRate struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Material  string          `gorm:"uniqueIndex;size:50;not null" json:"material"`
	PricePerKg decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_kg"`
	UpdatedBy *uint           `json:"updated_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (ScrapRate) TableName() string {
	return "scrap_rates"
}
