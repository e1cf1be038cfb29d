package repository

import (
	"errors"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"gorm.io/gorm"
)

type PickupRepository struct {
	db *gorm.DB
}

func NewPickupRepository(db *gorm.DB) *PickupRepository {
	return &PickupRepository{db: db}
}

func (r *PickupRepository) Create(p *models.PickupRequest) error {
	return r.db.Create(p).Error
}

func (r *PickupRepository) GetByID(id uint) (*models.PickupRequest, error) {
	var p models.PickupRequest
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// TransitionIfStatus applies patch only when the pickup is still in fromStatus.
// Same conditional-update guard as withdrawals; losers of the accept race get
// ErrInvalidTransition.
func (r *PickupRepository) TransitionIfStatus(id uint, fromStatus string, patch map[string]interface{}) error {
	res := r.db.Model(&models.PickupRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// ListByUser returns one household's pickup requests, newest-first.
func (r *PickupRepository) ListByUser(userID uint, status string, page, limit int) ([]models.PickupRequest, int64, error) {
	q := r.db.Model(&models.PickupRequest{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.PickupRequest
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListByScrapper returns pickups a scrapper has accepted or collected.
func (r *PickupRepository) ListByScrapper(scrapperID uint, status string, page, limit int) ([]models.PickupRequest, int64, error) {
	q := r.db.Model(&models.PickupRequest{}).Where("scrapper_id = ?", scrapperID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.PickupRequest
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListOpen returns unclaimed pickups for scrappers to browse, oldest-first so
// long-waiting requests surface first. Optional material filter.
func (r *PickupRepository) ListOpen(material string, page, limit int) ([]models.PickupRequest, int64, error) {
	q := r.db.Model(&models.PickupRequest{}).Where("status = ?", domain.PickupStatusRequested)
	if material != "" {
		q = q.Where("material = ?", material)
	}
	var total int64
	q.Count(&total)
	var list []models.PickupRequest
	err := q.Order("created_at ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListAll is the admin view with optional status filter.
func (r *PickupRepository) ListAll(status string, page, limit int) ([]models.PickupRequest, int64, error) {
	q := r.db.Model(&models.PickupRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.PickupRequest
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
