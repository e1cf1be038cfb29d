package repository

import (
	"errors"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) GetByMaterial(material string) (*models.ScrapRate, error) {
	var rate models.ScrapRate
	err := r.db.Where("material = ?", material).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateRepository) GetAll() ([]models.ScrapRate, error) {
	var list []models.ScrapRate
	err := r.db.Order("material ASC").Find(&list).Error
	return list, err
}

// Set creates or updates the rate for a material.
func (r *RateRepository) Set(material string, pricePerKg decimal.Decimal, updatedBy uint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "material"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_per_kg", "updated_by", "updated_at"}),
	}).Create(&models.ScrapRate{
		Material:   material,
		PricePerKg: pricePerKg,
		UpdatedBy:  &updatedBy,
	}).Error
}
