package domain

const (
	RoleUser     = "USER"
	RoleScrapper = "SCRAPPER"
	RoleAdmin    = "ADMIN"
)

// Requester kinds for records that can belong to either side of the marketplace
// (withdrawals, notifications). Tagged explicitly instead of a nullable dual reference.
const (
	RequesterTypeUser     = "USER"
	RequesterTypeScrapper = "SCRAPPER"
)

const (
	WithdrawalStatusPending   = "PENDING"
	WithdrawalStatusApproved  = "APPROVED"
	WithdrawalStatusRejected  = "REJECTED"
	WithdrawalStatusProcessed = "PROCESSED"
)

const (
	PayoutMethodBankTransfer = "BANK_TRANSFER"
	PayoutMethodUPI          = "UPI"
)

const (
	PickupStatusRequested = "REQUESTED"
	PickupStatusAccepted  = "ACCEPTED"
	PickupStatusCollected = "COLLECTED"
	PickupStatusCancelled = "CANCELLED"
)

const (
	TxTypeEarning    = "EARNING"
	TxTypeWithdrawal = "WITHDRAWAL"
	TxTypeRefund     = "REFUND"
)

const (
	NotifWithdrawalApproved  = "WITHDRAWAL_APPROVED"
	NotifWithdrawalRejected  = "WITHDRAWAL_REJECTED"
	NotifWithdrawalProcessed = "WITHDRAWAL_PROCESSED"
	NotifPickupAccepted      = "PICKUP_ACCEPTED"
	NotifPickupCollected     = "PICKUP_COLLECTED"
	NotifPickupCancelled     = "PICKUP_CANCELLED"
)

// Default scrap rate card (INR per kg), seeded on first start.
var DefaultScrapRates = map[string]string{
	"newspaper": "14.00",
	"cardboard": "8.00",
	"plastic":   "10.00",
	"iron":      "26.00",
	"copper":    "425.00",
	"aluminium": "105.00",
	"brass":     "305.00",
	"e-waste":   "35.00",
	"glass":     "2.00",
}
