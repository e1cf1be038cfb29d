package service

import (
	"fmt"
	"strings"
	"time"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WithdrawalStore is the record store for withdrawal requests. All mutation of
// a request after creation goes through ResolveIfPending, a conditional update
// keyed on the current status.
type WithdrawalStore interface {
	Create(w *models.WithdrawalRequest) error
	GetByRequestID(requestID string) (*models.WithdrawalRequest, error)
	ResolveIfPending(requestID string, patch map[string]interface{}) error
	List(status string, page, limit int) ([]models.WithdrawalRequest, int64, error)
	ListByRequester(requesterID uint, requesterType string, page, limit int) ([]models.WithdrawalRequest, int64, error)
}

// WalletStore is the wallet collaborator: it owns balance sufficiency. Debit
// fails with domain.ErrInsufficientBalance when funds don't cover the amount.
type WalletStore interface {
	Debit(userID uint, amount decimal.Decimal, txType, reference string) error
	Credit(userID uint, amount decimal.Decimal, txType, reference string) error
}

// Notifier delivers a notification to a requester. Best-effort from the
// caller's point of view: dispatch failures never roll back a transition.
type Notifier interface {
	Notify(recipientID uint, recipientType, notifType, title, message string, data map[string]interface{}) error
}

type SubmitWithdrawalInput struct {
	Amount            decimal.Decimal
	PayoutMethod      string
	AccountHolderName string
	AccountNumber     string
	IFSCCode          string
	BankName          string
	UPIID             string
}

type ResolveWithdrawalInput struct {
	Status        string
	Remarks       string
	TransactionID string
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type WithdrawalService struct {
	store     WithdrawalStore
	wallet    WalletStore
	notifier  Notifier
	log       *zap.Logger
	minAmount decimal.Decimal
}

func NewWithdrawalService(store WithdrawalStore, wallet WalletStore, notifier Notifier, log *zap.Logger, minAmount decimal.Decimal) *WithdrawalService {
	if log == nil {
		log = zap.NewNop()
	}
	if minAmount.LessThan(decimal.NewFromInt(1)) {
		minAmount = decimal.NewFromInt(1)
	}
	return &WithdrawalService{store: store, wallet: wallet, notifier: notifier, log: log, minAmount: minAmount}
}

// buildWithdrawalRequest validates creation input and returns a PENDING record.
// Pure validation: wallet sufficiency is the caller's concern.
func buildWithdrawalRequest(requesterID uint, requesterType string, in SubmitWithdrawalInput, minAmount decimal.Decimal) (*models.WithdrawalRequest, error) {
	if requesterType != domain.RequesterTypeUser && requesterType != domain.RequesterTypeScrapper {
		return nil, domain.NewValidationError("requesterType", "must be USER or SCRAPPER")
	}
	if in.Amount.LessThan(minAmount) {
		return nil, domain.NewValidationError("amount", fmt.Sprintf("must be >= %s", minAmount.String()))
	}
	w := &models.WithdrawalRequest{
		RequesterID:   requesterID,
		RequesterType: requesterType,
		Amount:        in.Amount,
		Status:        domain.WithdrawalStatusPending,
		PayoutMethod:  in.PayoutMethod,
	}
	switch in.PayoutMethod {
	case domain.PayoutMethodBankTransfer:
		if strings.TrimSpace(in.AccountHolderName) == "" {
			return nil, domain.NewValidationError("accountHolderName", "required for bank transfer")
		}
		if strings.TrimSpace(in.AccountNumber) == "" {
			return nil, domain.NewValidationError("accountNumber", "required for bank transfer")
		}
		if strings.TrimSpace(in.IFSCCode) == "" {
			return nil, domain.NewValidationError("ifscCode", "required for bank transfer")
		}
		w.AccountHolderName = strings.TrimSpace(in.AccountHolderName)
		w.AccountNumber = strings.TrimSpace(in.AccountNumber)
		w.IFSCCode = strings.ToUpper(strings.TrimSpace(in.IFSCCode))
		w.BankName = strings.TrimSpace(in.BankName)
	case domain.PayoutMethodUPI:
		if strings.TrimSpace(in.UPIID) == "" {
			return nil, domain.NewValidationError("upiId", "required for UPI")
		}
		w.UPIID = strings.TrimSpace(in.UPIID)
	default:
		return nil, domain.NewValidationError("payoutMethod", "must be BANK_TRANSFER or UPI")
	}
	return w, nil
}

// Submit validates the request, debits the requester's wallet, and persists a
// PENDING record. A fresh request id is generated per attempt, so a failed
// call is safe to retry as a whole.
func (s *WithdrawalService) Submit(requesterID uint, requesterType string, in SubmitWithdrawalInput) (*models.WithdrawalRequest, error) {
	w, err := buildWithdrawalRequest(requesterID, requesterType, in, s.minAmount)
	if err != nil {
		return nil, err
	}
	w.RequestID = "wd-" + uuid.New().String()

	// Hold the funds before recording the request; refund if persisting fails.
	if err := s.wallet.Debit(requesterID, w.Amount, domain.TxTypeWithdrawal, w.RequestID); err != nil {
		return nil, err
	}
	if err := s.store.Create(w); err != nil {
		if cerr := s.wallet.Credit(requesterID, w.Amount, domain.TxTypeRefund, w.RequestID); cerr != nil {
			s.log.Error("withdrawal: refund after failed create",
				zap.String("request_id", w.RequestID), zap.Error(cerr))
		}
		return nil, err
	}
	return w, nil
}

// Resolve applies an admin decision to a PENDING request: APPROVED, REJECTED
// (remarks mandatory) or PROCESSED (transaction id mandatory). All three are
// terminal. The persistence step is a conditional update, so of N concurrent
// resolutions exactly one wins and the rest fail with ErrInvalidTransition.
func (s *WithdrawalService) Resolve(adminID uint, requestID string, in ResolveWithdrawalInput) (*models.WithdrawalRequest, error) {
	w, err := s.store.GetByRequestID(requestID)
	if err != nil {
		return nil, err
	}
	if !w.IsPending() {
		return nil, domain.ErrInvalidTransition
	}

	remarks := strings.TrimSpace(in.Remarks)
	txID := strings.TrimSpace(in.TransactionID)
	switch in.Status {
	case domain.WithdrawalStatusApproved:
	case domain.WithdrawalStatusRejected:
		if remarks == "" {
			return nil, domain.NewValidationError("remarks", "rejection reason is required")
		}
	case domain.WithdrawalStatusProcessed:
		if txID == "" {
			return nil, domain.NewValidationError("transactionId", "required when marking processed")
		}
	default:
		return nil, domain.NewValidationError("status", "must be APPROVED, REJECTED or PROCESSED")
	}

	now := time.Now()
	patch := map[string]interface{}{
		"status":       in.Status,
		"processed_by": adminID,
		"processed_at": now,
	}
	if remarks != "" {
		patch["admin_notes"] = remarks
	}
	if in.Status == domain.WithdrawalStatusProcessed {
		patch["transaction_id"] = txID
	}
	if err := s.store.ResolveIfPending(requestID, patch); err != nil {
		return nil, err
	}

	w.Status = in.Status
	w.AdminNotes = remarks
	w.ProcessedBy = &adminID
	w.ProcessedAt = &now
	if in.Status == domain.WithdrawalStatusProcessed {
		w.TransactionID = txID
	}

	// Held funds go back on rejection. The transition is already committed, so
	// a refund failure is logged for reconciliation, not surfaced.
	if in.Status == domain.WithdrawalStatusRejected {
		if err := s.wallet.Credit(w.RequesterID, w.Amount, domain.TxTypeRefund, w.RequestID); err != nil {
			s.log.Error("withdrawal: refund on rejection",
				zap.String("request_id", w.RequestID), zap.Error(err))
		}
	}

	s.notifyResolved(w)
	return w, nil
}

func (s *WithdrawalService) notifyResolved(w *models.WithdrawalRequest) {
	var notifType, title, message string
	switch w.Status {
	case domain.WithdrawalStatusApproved:
		notifType = domain.NotifWithdrawalApproved
		title = "Withdrawal approved"
		message = fmt.Sprintf("Your withdrawal request of ₹%s has been approved.", w.Amount.StringFixed(2))
	case domain.WithdrawalStatusRejected:
		notifType = domain.NotifWithdrawalRejected
		title = "Withdrawal rejected"
		message = fmt.Sprintf("Your withdrawal request of ₹%s was rejected: %s. The amount has been returned to your wallet.", w.Amount.StringFixed(2), w.AdminNotes)
	case domain.WithdrawalStatusProcessed:
		notifType = domain.NotifWithdrawalProcessed
		title = "Withdrawal processed"
		message = fmt.Sprintf("Your withdrawal of ₹%s has been transferred (ref %s).", w.Amount.StringFixed(2), w.TransactionID)
	default:
		return
	}
	data := map[string]interface{}{
		"request_id": w.RequestID,
		"status":     w.Status,
		"amount":     w.Amount.StringFixed(2),
	}
	if err := s.notifier.Notify(w.RequesterID, w.RequesterType, notifType, title, message, data); err != nil {
		s.log.Warn("withdrawal: notification dispatch failed",
			zap.String("request_id", w.RequestID), zap.Error(err))
	}
}

// Get returns a single request by its public id.
func (s *WithdrawalService) Get(requestID string) (*models.WithdrawalRequest, error) {
	return s.store.GetByRequestID(requestID)
}

// List returns a page of requests for admin review, newest-first, optionally
// scoped to a status. Non-positive page/limit are coerced to defaults rather
// than failing the call.
func (s *WithdrawalService) List(status string, page, limit int) ([]models.WithdrawalRequest, Pagination, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.store.List(status, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(page, limit, total), nil
}

// ListForRequester returns the requester's own withdrawal history.
func (s *WithdrawalService) ListForRequester(requesterID uint, requesterType string, page, limit int) ([]models.WithdrawalRequest, Pagination, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.store.ListByRequester(requesterID, requesterType, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(page, limit, total), nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	pages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
