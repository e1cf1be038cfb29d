package repository

import (
	"scrapto/internal/models"

	"gorm.io/gorm"
)

type ScrapperRepository struct {
	db *gorm.DB
}

func NewScrapperRepository(db *gorm.DB) *ScrapperRepository {
	return &ScrapperRepository{db: db}
}

func (r *ScrapperRepository) GetByUserID(userID uint) (*models.ScrapperProfile, error) {
	var p models.ScrapperProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile on first save, updates it afterwards.
func (r *ScrapperRepository) Upsert(p *models.ScrapperProfile) error {
	existing, err := r.GetByUserID(p.UserID)
	if err != nil {
		return r.db.Create(p).Error
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return r.db.Save(p).Error
}

// List returns scrapper profiles with search and pagination.
func (r *ScrapperRepository) List(search string, page, limit int) ([]models.ScrapperProfile, int64, error) {
	q := r.db.Model(&models.ScrapperProfile{})
	if search != "" {
		q = q.Where("display_name LIKE ? OR service_area LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	q.Count(&total)
	var list []models.ScrapperProfile
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *ScrapperRepository) SetKYCVerified(userID uint, verified bool) error {
	return r.db.Model(&models.ScrapperProfile{}).Where("user_id = ?", userID).Update("kyc_verified", verified).Error
}
