package models

import (
	"time"

	"scrapto/internal/domain"

	"github.com/shopspring/decimal"
)

// WithdrawalRequest is one cash-out request and its resolution audit trail.
// Records are append-only: created once by the requester, transitioned at most
// once by an admin, never deleted. No soft-delete column on purpose.
type WithdrawalRequest struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RequestID     string          `gorm:"size:64;uniqueIndex;not null" json:"request_id"`
	RequesterID   uint            `gorm:"not null;index" json:"requester_id"`
	RequesterType string          `gorm:"size:20;not null;index" json:"requester_type"` // USER | SCRAPPER
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status        string          `gorm:"size:20;not null;index" json:"status"` // PENDING, APPROVED, REJECTED, PROCESSED

	// Payout method: exactly one variant populated, immutable after creation.
	PayoutMethod      string `gorm:"size:20;not null" json:"payout_method"` // BANK_TRANSFER | UPI
	AccountHolderName string `gorm:"size:100" json:"account_holder_name,omitempty"`
	AccountNumber     string `gorm:"size:34" json:"account_number,omitempty"`
	IFSCCode          string `gorm:"size:11" json:"ifsc_code,omitempty"`
	BankName          string `gorm:"size:100" json:"bank_name,omitempty"`
	UPIID             string `gorm:"size:100" json:"upi_id,omitempty"`

	// Resolution audit fields, set together exactly once at the terminal transition.
	AdminNotes    string     `gorm:"type:text" json:"admin_notes,omitempty"`
	ProcessedBy   *uint      `gorm:"index" json:"processed_by"`
	ProcessedAt   *time.Time `json:"processed_at"`
	TransactionID string     `gorm:"size:128" json:"transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Requester User  `gorm:"foreignKey:RequesterID" json:"-"`
	Admin     *User `gorm:"foreignKey:ProcessedBy" json:"-"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

func (w *WithdrawalRequest) IsPending() bool { return w.Status == domain.WithdrawalStatusPending }
