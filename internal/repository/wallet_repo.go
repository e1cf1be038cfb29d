package repository

import (
	"errors"

	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	w = &models.Wallet{UserID: userID, Balance: decimal.Zero, Currency: "INR"}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) Balance(userID uint) (decimal.Decimal, error) {
	w, err := r.GetOrCreate(userID)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Balance, nil
}

// Debit subtracts amount from the wallet and records a negative transaction.
// The balance update is conditional on sufficient funds so concurrent debits
// cannot overdraw; a miss returns ErrInsufficientBalance.
func (r *WalletRepository) Debit(userID uint, amount decimal.Decimal, txType, reference string) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientBalance
		}
		return tx.Create(&models.WalletTransaction{
			UserID:    userID,
			Amount:    amount.Neg(),
			Type:      txType,
			Reference: reference,
		}).Error
	})
}

// Credit adds amount to the wallet and records a positive transaction.
func (r *WalletRepository) Credit(userID uint, amount decimal.Decimal, txType, reference string) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		return tx.Create(&models.WalletTransaction{
			UserID:    userID,
			Amount:    amount,
			Type:      txType,
			Reference: reference,
		}).Error
	})
}

func (r *WalletRepository) ListTransactions(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
