package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PickupStore interface {
	Create(p *models.PickupRequest) error
	GetByID(id uint) (*models.PickupRequest, error)
	TransitionIfStatus(id uint, fromStatus string, patch map[string]interface{}) error
	ListByUser(userID uint, status string, page, limit int) ([]models.PickupRequest, int64, error)
	ListByScrapper(scrapperID uint, status string, page, limit int) ([]models.PickupRequest, int64, error)
	ListOpen(material string, page, limit int) ([]models.PickupRequest, int64, error)
}

type RateStore interface {
	GetByMaterial(material string) (*models.ScrapRate, error)
}

type SubmitPickupInput struct {
	Material          string
	EstimatedWeightKg decimal.Decimal
	Address           string
	Notes             string
	Photos            []string
}

type PickupService struct {
	store         PickupStore
	rates         RateStore
	wallet        WalletStore
	notifier      Notifier
	log           *zap.Logger
	minBillableKg decimal.Decimal
}

func NewPickupService(store PickupStore, rates RateStore, wallet WalletStore, notifier Notifier, log *zap.Logger, minBillableKg decimal.Decimal) *PickupService {
	if log == nil {
		log = zap.NewNop()
	}
	if minBillableKg.LessThanOrEqual(decimal.Zero) {
		minBillableKg = decimal.NewFromInt(1)
	}
	return &PickupService{store: store, rates: rates, wallet: wallet, notifier: notifier, log: log, minBillableKg: minBillableKg}
}

// Estimate quotes a payout for the given material and weight using the current
// rate card. Weights below the minimum billable weight are billed at that
// minimum, so tiny submissions still cover the collection trip.
func (s *PickupService) Estimate(material string, weightKg decimal.Decimal) (*models.ScrapRate, decimal.Decimal, error) {
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, domain.NewValidationError("estimatedWeightKg", "must be greater than 0")
	}
	rate, err := s.rates.GetByMaterial(strings.ToLower(strings.TrimSpace(material)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, decimal.Zero, domain.NewValidationError("material", "unknown material")
		}
		return nil, decimal.Zero, err
	}
	billable := weightKg
	if billable.LessThan(s.minBillableKg) {
		billable = s.minBillableKg
	}
	return rate, rate.PricePerKg.Mul(billable).Round(2), nil
}

// Submit creates a pickup request with a snapshotted rate and estimate.
func (s *PickupService) Submit(userID uint, in SubmitPickupInput) (*models.PickupRequest, error) {
	if strings.TrimSpace(in.Address) == "" {
		return nil, domain.NewValidationError("address", "pickup address is required")
	}
	rate, estimate, err := s.Estimate(in.Material, in.EstimatedWeightKg)
	if err != nil {
		return nil, err
	}
	var photosJSON string
	if len(in.Photos) > 0 {
		b, _ := json.Marshal(in.Photos)
		photosJSON = string(b)
	}
	p := &models.PickupRequest{
		UserID:            userID,
		Material:          rate.Material,
		Status:            domain.PickupStatusRequested,
		EstimatedWeightKg: in.EstimatedWeightKg,
		RatePerKg:         rate.PricePerKg,
		EstimatedAmount:   estimate,
		Address:           strings.TrimSpace(in.Address),
		Notes:             in.Notes,
		Photos:            photosJSON,
	}
	if err := s.store.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Accept claims an open pickup for a scrapper. The claim is a conditional
// update on REQUESTED, so two scrappers racing for the same pickup cannot
// both win.
func (s *PickupService) Accept(pickupID, scrapperID uint) (*models.PickupRequest, error) {
	p, err := s.store.GetByID(pickupID)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen() {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	err = s.store.TransitionIfStatus(pickupID, domain.PickupStatusRequested, map[string]interface{}{
		"scrapper_id": scrapperID,
		"status":      domain.PickupStatusAccepted,
		"accepted_at": now,
	})
	if err != nil {
		return nil, err
	}
	p.ScrapperID = &scrapperID
	p.Status = domain.PickupStatusAccepted
	p.AcceptedAt = &now

	if err := s.notifier.Notify(p.UserID, domain.RequesterTypeUser, domain.NotifPickupAccepted,
		"Pickup accepted",
		fmt.Sprintf("A scrapper accepted your %s pickup and will contact you shortly.", p.Material),
		map[string]interface{}{"pickup_id": p.ID}); err != nil {
		s.log.Warn("pickup: notification dispatch failed", zap.Uint("pickup_id", p.ID), zap.Error(err))
	}
	return p, nil
}

// Collect closes an accepted pickup: records the weighed amount, credits the
// seller's wallet, and notifies them.
func (s *PickupService) Collect(pickupID, scrapperID uint, actualWeightKg decimal.Decimal) (*models.PickupRequest, error) {
	if actualWeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("actualWeightKg", "must be greater than 0")
	}
	p, err := s.store.GetByID(pickupID)
	if err != nil {
		return nil, err
	}
	if p.ScrapperID == nil || *p.ScrapperID != scrapperID {
		return nil, domain.ErrNotFound
	}
	if p.Status != domain.PickupStatusAccepted {
		return nil, domain.ErrInvalidTransition
	}

	billable := actualWeightKg
	if billable.LessThan(s.minBillableKg) {
		billable = s.minBillableKg
	}
	final := p.RatePerKg.Mul(billable).Round(2)
	now := time.Now()
	err = s.store.TransitionIfStatus(pickupID, domain.PickupStatusAccepted, map[string]interface{}{
		"status":           domain.PickupStatusCollected,
		"actual_weight_kg": actualWeightKg,
		"final_amount":     final,
		"collected_at":     now,
	})
	if err != nil {
		return nil, err
	}
	p.Status = domain.PickupStatusCollected
	p.ActualWeightKg = &actualWeightKg
	p.FinalAmount = &final
	p.CollectedAt = &now

	reference := fmt.Sprintf("pickup-%d", p.ID)
	if err := s.wallet.Credit(p.UserID, final, domain.TxTypeEarning, reference); err != nil {
		s.log.Error("pickup: wallet credit after collection", zap.Uint("pickup_id", p.ID), zap.Error(err))
	}
	if err := s.notifier.Notify(p.UserID, domain.RequesterTypeUser, domain.NotifPickupCollected,
		"Scrap collected",
		fmt.Sprintf("Your %s pickup was collected. ₹%s has been credited to your wallet.", p.Material, final.StringFixed(2)),
		map[string]interface{}{"pickup_id": p.ID, "amount": final.StringFixed(2)}); err != nil {
		s.log.Warn("pickup: notification dispatch failed", zap.Uint("pickup_id", p.ID), zap.Error(err))
	}
	return p, nil
}

// Cancel withdraws an open pickup. Only the owner can cancel, and only while
// no scrapper has claimed it.
func (s *PickupService) Cancel(pickupID, userID uint) (*models.PickupRequest, error) {
	p, err := s.store.GetByID(pickupID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if !p.IsOpen() {
		return nil, domain.ErrInvalidTransition
	}
	now := time.Now()
	err = s.store.TransitionIfStatus(pickupID, domain.PickupStatusRequested, map[string]interface{}{
		"status":       domain.PickupStatusCancelled,
		"cancelled_at": now,
	})
	if err != nil {
		return nil, err
	}
	p.Status = domain.PickupStatusCancelled
	p.CancelledAt = &now
	return p, nil
}

func (s *PickupService) ListForUser(userID uint, status string, page, limit int) ([]models.PickupRequest, Pagination, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.store.ListByUser(userID, status, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(page, limit, total), nil
}

func (s *PickupService) ListForScrapper(scrapperID uint, status string, page, limit int) ([]models.PickupRequest, Pagination, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.store.ListByScrapper(scrapperID, status, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(page, limit, total), nil
}

func (s *PickupService) ListOpen(material string, page, limit int) ([]models.PickupRequest, Pagination, error) {
	page, limit = normalizePage(page, limit)
	list, total, err := s.store.ListOpen(strings.ToLower(strings.TrimSpace(material)), page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, paginate(page, limit, total), nil
}
