package service

import (
	"errors"
	"sync"
	"testing"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWithdrawalStore is an in-memory store with the same contract as the SQL
// repository: ResolveIfPending only succeeds while the row is still PENDING,
// and listings come back newest-first with Limit/Offset paging.
type fakeWithdrawalStore struct {
	mu        sync.Mutex
	order     []string // request ids, oldest first
	byID      map[string]*models.WithdrawalRequest
	createErr error
}

func newFakeWithdrawalStore() *fakeWithdrawalStore {
	return &fakeWithdrawalStore{byID: make(map[string]*models.WithdrawalRequest)}
}

func (f *fakeWithdrawalStore) Create(w *models.WithdrawalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[w.RequestID]; ok {
		return domain.ErrDuplicateRequestID
	}
	cp := *w
	f.byID[w.RequestID] = &cp
	f.order = append(f.order, w.RequestID)
	return nil
}

func (f *fakeWithdrawalStore) GetByRequestID(requestID string) (*models.WithdrawalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWithdrawalStore) ResolveIfPending(requestID string, patch map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[requestID]
	if !ok || w.Status != domain.WithdrawalStatusPending {
		return domain.ErrInvalidTransition
	}
	w.Status = patch["status"].(string)
	if v, ok := patch["admin_notes"]; ok {
		w.AdminNotes = v.(string)
	}
	if v, ok := patch["transaction_id"]; ok {
		w.TransactionID = v.(string)
	}
	return nil
}

func (f *fakeWithdrawalStore) List(status string, page, limit int) ([]models.WithdrawalRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page(func(w *models.WithdrawalRequest) bool {
		return status == "" || w.Status == status
	}, page, limit), f.count(func(w *models.WithdrawalRequest) bool {
		return status == "" || w.Status == status
	}), nil
}

func (f *fakeWithdrawalStore) ListByRequester(requesterID uint, requesterType string, page, limit int) ([]models.WithdrawalRequest, int64, error) {
	match := func(w *models.WithdrawalRequest) bool {
		return w.RequesterID == requesterID && w.RequesterType == requesterType
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page(match, page, limit), f.count(match), nil
}

// page returns matching records newest-first, sliced per page/limit. Caller
// holds the lock.
func (f *fakeWithdrawalStore) page(match func(*models.WithdrawalRequest) bool, page, limit int) []models.WithdrawalRequest {
	var matched []models.WithdrawalRequest
	for i := len(f.order) - 1; i >= 0; i-- {
		if w := f.byID[f.order[i]]; match(w) {
			matched = append(matched, *w)
		}
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end]
}

func (f *fakeWithdrawalStore) count(match func(*models.WithdrawalRequest) bool) int64 {
	var n int64
	for _, w := range f.byID {
		if match(w) {
			n++
		}
	}
	return n
}

type fakeWallet struct {
	mu       sync.Mutex
	balances map[uint]decimal.Decimal
	debits   int
	credits  int
}

func newFakeWallet(userID uint, balance string) *fakeWallet {
	b, _ := decimal.NewFromString(balance)
	return &fakeWallet{balances: map[uint]decimal.Decimal{userID: b}}
}

func (f *fakeWallet) Debit(userID uint, amount decimal.Decimal, txType, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[userID].LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	f.balances[userID] = f.balances[userID].Sub(amount)
	f.debits++
	return nil
}

func (f *fakeWallet) Credit(userID uint, amount decimal.Decimal, txType, reference string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = f.balances[userID].Add(amount)
	f.credits++
	return nil
}

func (f *fakeWallet) balance(userID uint) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeNotifier) Notify(recipientID uint, recipientType, notifType, title, message string, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("dispatch failed")
	}
	f.sent = append(f.sent, notifType)
	return nil
}

func newWithdrawalService(store *fakeWithdrawalStore, wallet *fakeWallet, notifier *fakeNotifier) *WithdrawalService {
	return NewWithdrawalService(store, wallet, notifier, nil, decimal.NewFromInt(1))
}

func bankInput(amount string) SubmitWithdrawalInput {
	return SubmitWithdrawalInput{
		Amount:            decimal.RequireFromString(amount),
		PayoutMethod:      domain.PayoutMethodBankTransfer,
		AccountHolderName: "Ravi Kumar",
		AccountNumber:     "12345678901",
		IFSCCode:          "hdfc0001234",
		BankName:          "HDFC",
	}
}

func upiInput(amount string) SubmitWithdrawalInput {
	return SubmitWithdrawalInput{
		Amount:       decimal.RequireFromString(amount),
		PayoutMethod: domain.PayoutMethodUPI,
		UPIID:        "ravi@upi",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(7, "500.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	w, err := svc.Submit(7, domain.RequesterTypeUser, bankInput("200.00"))
	require.NoError(t, err)

	assert.Equal(t, domain.WithdrawalStatusPending, w.Status)
	assert.NotEmpty(t, w.RequestID)
	assert.Nil(t, w.ProcessedBy)
	assert.Nil(t, w.ProcessedAt)
	assert.Empty(t, w.AdminNotes)
	assert.Equal(t, "HDFC0001234", w.IFSCCode, "IFSC is upper-cased")
	assert.Equal(t, "300", wallet.balance(7).String(), "funds are held on submit")

	stored, err := store.GetByRequestID(w.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequesterTypeUser, stored.RequesterType)
	assert.Equal(t, uint(7), stored.RequesterID)
}

func TestSubmitUPI(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(3, "100.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	w, err := svc.Submit(3, domain.RequesterTypeScrapper, upiInput("50.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutMethodUPI, w.PayoutMethod)
	assert.Equal(t, "ravi@upi", w.UPIID)
	assert.Empty(t, w.AccountNumber)
}

func TestSubmitValidation(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(1, "1000.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	cases := []struct {
		name  string
		rtype string
		in    SubmitWithdrawalInput
		field string
	}{
		{"amount below minimum", domain.RequesterTypeUser, bankInput("0.50"), "amount"},
		{"bad requester type", "ADMIN", bankInput("10.00"), "requesterType"},
		{"unknown payout method", domain.RequesterTypeUser, SubmitWithdrawalInput{
			Amount: decimal.NewFromInt(10), PayoutMethod: "CHEQUE",
		}, "payoutMethod"},
		{"bank transfer missing account number", domain.RequesterTypeUser, SubmitWithdrawalInput{
			Amount: decimal.NewFromInt(10), PayoutMethod: domain.PayoutMethodBankTransfer,
			AccountHolderName: "R", IFSCCode: "HDFC0001234",
		}, "accountNumber"},
		{"bank transfer missing holder name", domain.RequesterTypeUser, SubmitWithdrawalInput{
			Amount: decimal.NewFromInt(10), PayoutMethod: domain.PayoutMethodBankTransfer,
			AccountNumber: "123", IFSCCode: "HDFC0001234",
		}, "accountHolderName"},
		{"bank transfer missing ifsc", domain.RequesterTypeUser, SubmitWithdrawalInput{
			Amount: decimal.NewFromInt(10), PayoutMethod: domain.PayoutMethodBankTransfer,
			AccountHolderName: "R", AccountNumber: "123",
		}, "ifscCode"},
		{"upi missing id", domain.RequesterTypeUser, SubmitWithdrawalInput{
			Amount: decimal.NewFromInt(10), PayoutMethod: domain.PayoutMethodUPI,
		}, "upiId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(1, tc.rtype, tc.in)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Equal(t, 0, wallet.debits, "no debit on validation failure")
}

func TestSubmitInsufficientBalance(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(1, "5.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	_, err := svc.Submit(1, domain.RequesterTypeUser, upiInput("10.00"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, "5", wallet.balance(1).String())
}

func TestSubmitRefundsWhenCreateFails(t *testing.T) {
	store := newFakeWithdrawalStore()
	store.createErr = errors.New("db down")
	wallet := newFakeWallet(1, "100.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	_, err := svc.Submit(1, domain.RequesterTypeUser, upiInput("40.00"))
	require.Error(t, err)
	assert.Equal(t, "100", wallet.balance(1).String(), "held funds returned")
	assert.Equal(t, 1, wallet.debits)
	assert.Equal(t, 1, wallet.credits)
}

func submitPending(t *testing.T, svc *WithdrawalService, userID uint, amount string) *models.WithdrawalRequest {
	t.Helper()
	w, err := svc.Submit(userID, domain.RequesterTypeUser, upiInput(amount))
	require.NoError(t, err)
	return w
}

func TestResolveApprove(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "300.00")
	notifier := &fakeNotifier{}
	svc := newWithdrawalService(store, wallet, notifier)
	w := submitPending(t, svc, 9, "100.00")

	got, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusApproved})
	require.NoError(t, err)

	assert.Equal(t, domain.WithdrawalStatusApproved, got.Status)
	require.NotNil(t, got.ProcessedBy)
	assert.Equal(t, uint(42), *got.ProcessedBy)
	assert.NotNil(t, got.ProcessedAt)
	assert.Equal(t, "200", wallet.balance(9).String(), "no refund on approval")
	assert.Equal(t, []string{domain.NotifWithdrawalApproved}, notifier.sent)
}

func TestResolveRejectRequiresRemarksAndRefunds(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "300.00")
	notifier := &fakeNotifier{}
	svc := newWithdrawalService(store, wallet, notifier)
	w := submitPending(t, svc, 9, "100.00")

	_, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusRejected})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "remarks", ve.Field)

	// Still pending after the failed attempt.
	stored, err := store.GetByRequestID(w.RequestID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())

	got, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{
		Status:  domain.WithdrawalStatusRejected,
		Remarks: "account name mismatch",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusRejected, got.Status)
	assert.Equal(t, "account name mismatch", got.AdminNotes)
	assert.Equal(t, "300", wallet.balance(9).String(), "held funds returned on rejection")
	assert.Equal(t, []string{domain.NotifWithdrawalRejected}, notifier.sent)
}

func TestResolveProcessedRequiresTransactionID(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "300.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})
	w := submitPending(t, svc, 9, "100.00")

	_, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusProcessed})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "transactionId", ve.Field)

	got, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{
		Status:        domain.WithdrawalStatusProcessed,
		TransactionID: "NEFT-2026-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusProcessed, got.Status)
	assert.Equal(t, "NEFT-2026-0001", got.TransactionID)
	assert.Equal(t, "200", wallet.balance(9).String(), "payout keeps the hold")
}

func TestResolveUnknownStatus(t *testing.T) {
	store := newFakeWithdrawalStore()
	svc := newWithdrawalService(store, newFakeWallet(9, "300.00"), &fakeNotifier{})
	w := submitPending(t, svc, 9, "100.00")

	_, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: "PENDING"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)
}

func TestResolveUnknownRequest(t *testing.T) {
	svc := newWithdrawalService(newFakeWithdrawalStore(), newFakeWallet(1, "0"), &fakeNotifier{})
	_, err := svc.Resolve(42, "wd-missing", ResolveWithdrawalInput{Status: domain.WithdrawalStatusApproved})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveIsTerminal(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "300.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})
	w := submitPending(t, svc, 9, "100.00")

	_, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusApproved})
	require.NoError(t, err)

	// Any further resolution attempt fails, including re-applying the same one.
	for _, in := range []ResolveWithdrawalInput{
		{Status: domain.WithdrawalStatusApproved},
		{Status: domain.WithdrawalStatusRejected, Remarks: "nope"},
		{Status: domain.WithdrawalStatusProcessed, TransactionID: "tx"},
	} {
		_, err := svc.Resolve(42, w.RequestID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 0, wallet.credits, "no refund sneaks in through a repeat attempt")
}

func TestConcurrentResolutionsExactlyOneWins(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "1000.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})
	w := submitPending(t, svc, 9, "500.00")

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Resolve(uint(100+i), w.RequestID, ResolveWithdrawalInput{
				Status:  domain.WithdrawalStatusRejected,
				Remarks: "duplicate review",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, wins, "exactly one resolution may win")
	assert.Equal(t, 1, wallet.credits, "held funds refunded exactly once")
	assert.Equal(t, "1000", wallet.balance(9).String())
}

func TestResolveSurvivesNotifierFailure(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(9, "300.00")
	notifier := &fakeNotifier{fail: true}
	svc := newWithdrawalService(store, wallet, notifier)
	w := submitPending(t, svc, 9, "100.00")

	got, err := svc.Resolve(42, w.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusApproved})
	require.NoError(t, err, "notification dispatch is best-effort")
	assert.Equal(t, domain.WithdrawalStatusApproved, got.Status)
}

func TestListForRequesterScopesByIdentity(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := &fakeWallet{balances: map[uint]decimal.Decimal{
		1: decimal.NewFromInt(1000),
		2: decimal.NewFromInt(1000),
	}}
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	submitPending(t, svc, 1, "10.00")
	submitPending(t, svc, 1, "20.00")
	_, err := svc.Submit(2, domain.RequesterTypeScrapper, upiInput("30.00"))
	require.NoError(t, err)

	mine, pg, err := svc.ListForRequester(1, domain.RequesterTypeUser, 0, -5)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, 1, pg.Page, "non-positive page coerced")
	assert.Equal(t, 10, pg.Limit, "non-positive limit coerced")
	assert.Equal(t, int64(2), pg.Total)

	// Same numeric id under the other requester type sees nothing.
	other, _, err := svc.ListForRequester(1, domain.RequesterTypeScrapper, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListFiltersByStatus(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(1, "1000.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	w1 := submitPending(t, svc, 1, "10.00")
	submitPending(t, svc, 1, "20.00")
	_, err := svc.Resolve(42, w1.RequestID, ResolveWithdrawalInput{Status: domain.WithdrawalStatusApproved})
	require.NoError(t, err)

	pending, pg, err := svc.List(domain.WithdrawalStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, int64(1), pg.Total)

	all, pg, err := svc.List("", 1, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), pg.Total)
}

func TestListNewestFirstWithStatusFilter(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(1, "10000.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	var ids []string
	for i := 0; i < 8; i++ {
		ids = append(ids, submitPending(t, svc, 1, "10.00").RequestID)
	}
	for _, i := range []int{1, 4, 6} {
		_, err := svc.Resolve(42, ids[i], ResolveWithdrawalInput{
			Status:  domain.WithdrawalStatusRejected,
			Remarks: "account name mismatch",
		})
		require.NoError(t, err)
	}

	rejected, pg, err := svc.List(domain.WithdrawalStatusRejected, 1, 10)
	require.NoError(t, err)
	require.Len(t, rejected, 3)
	assert.Equal(t, int64(3), pg.Total)
	assert.Equal(t, ids[6], rejected[0].RequestID, "most recent rejected first")
	assert.Equal(t, ids[4], rejected[1].RequestID)
	assert.Equal(t, ids[1], rejected[2].RequestID)

	pending, pg, err := svc.List(domain.WithdrawalStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 5)
	assert.Equal(t, int64(5), pg.Total)
	assert.Equal(t, ids[7], pending[0].RequestID)
}

func TestListForRequesterPageSlicing(t *testing.T) {
	store := newFakeWithdrawalStore()
	wallet := newFakeWallet(1, "10000.00")
	svc := newWithdrawalService(store, wallet, &fakeNotifier{})

	var ids []string
	for i := 0; i < 7; i++ {
		ids = append(ids, submitPending(t, svc, 1, "10.00").RequestID)
	}

	// Newest-first, so page 2 of size 3 holds the 4th..6th most recent.
	pageTwo, pg, err := svc.ListForRequester(1, domain.RequesterTypeUser, 2, 3)
	require.NoError(t, err)
	require.Len(t, pageTwo, 3)
	assert.Equal(t, ids[3], pageTwo[0].RequestID)
	assert.Equal(t, ids[2], pageTwo[1].RequestID)
	assert.Equal(t, ids[1], pageTwo[2].RequestID)
	assert.Equal(t, int64(7), pg.Total)
	assert.Equal(t, int64(3), pg.Pages)

	last, _, err := svc.ListForRequester(1, domain.RequesterTypeUser, 3, 3)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, ids[0], last[0].RequestID)

	past, _, err := svc.ListForRequester(1, domain.RequesterTypeUser, 4, 3)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestPaginateMath(t *testing.T) {
	assert.Equal(t, int64(0), paginate(1, 10, 0).Pages)
	assert.Equal(t, int64(1), paginate(1, 10, 10).Pages)
	assert.Equal(t, int64(2), paginate(1, 10, 11).Pages)
}
