package repository

import (
	"errors"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.WithdrawalRequest) error {
	err := r.db.Create(w).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateRequestID
	}
	return err
}

func (r *WithdrawalRepository) GetByRequestID(requestID string) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := r.db.Where("request_id = ?", requestID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ResolveIfPending applies an already-validated transition with a conditional
// update keyed on the current status. Two concurrent admin actions can both
// observe PENDING; only the one whose UPDATE matches a row wins, the other
// gets ErrInvalidTransition.
func (r *WithdrawalRepository) ResolveIfPending(requestID string, patch map[string]interface{}) error {
	res := r.db.Model(&models.WithdrawalRequest{}).
		Where("request_id = ? AND status = ?", requestID, domain.WithdrawalStatusPending).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// List returns withdrawal requests newest-first, optionally scoped to status,
// with the total count for pagination.
func (r *WithdrawalRepository) List(status string, page, limit int) ([]models.WithdrawalRequest, int64, error) {
	q := r.db.Model(&models.WithdrawalRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.WithdrawalRequest
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListByRequester returns one account's own withdrawal history, newest-first.
func (r *WithdrawalRepository) ListByRequester(requesterID uint, requesterType string, page, limit int) ([]models.WithdrawalRequest, int64, error) {
	q := r.db.Model(&models.WithdrawalRequest{}).
		Where("requester_id = ? AND requester_type = ?", requesterID, requesterType)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.WithdrawalRequest
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
