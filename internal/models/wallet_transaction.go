package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletTransaction records credits/debits for wallet history
// (pickup earnings, withdrawals, rejection refunds).
type WalletTransaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // positive = credit, negative = debit
	Type      string          `gorm:"size:30;not null;index" json:"type"`        // EARNING, WITHDRAWAL, REFUND
	Reference string          `gorm:"size:128" json:"reference"`                 // e.g. pickup id, withdrawal request id
	CreatedAt time.Time       `json:"created_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
