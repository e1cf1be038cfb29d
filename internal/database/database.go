package database

import (
	"scrapto/config"
	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true, // map driver duplicate-key errors to gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ScrapperProfile{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.ScrapRate{},
		&models.PickupRequest{},
		&models.WithdrawalRequest{},
		&models.Notification{},
		&models.SystemSetting{},
	)
}

// SeedAdmin creates the default admin account if no admin exists yet.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Username:     "admin",
		Email:        "admin@scrapto.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}).Error
}

// SeedSettings inserts default system settings that don't exist yet.
func SeedSettings(db *gorm.DB) error {
	defaults := map[string]string{
		"withdrawal.min_amount":  "1",
		"pickup.min_billable_kg": "1",
		"support.email":          "support@scrapto.local",
	}
	for k, v := range defaults {
		var count int64
		db.Model(&models.SystemSetting{}).Where("`key` = ?", k).Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&models.SystemSetting{Key: k, Value: v}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedScrapRates inserts the default rate card for materials not yet present.
func SeedScrapRates(db *gorm.DB) error {
	for material, price := range domain.DefaultScrapRates {
		var count int64
		db.Model(&models.ScrapRate{}).Where("material = ?", material).Count(&count)
		if count > 0 {
			continue
		}
		rate, err := decimal.NewFromString(price)
		if err != nil {
			return err
		}
		if err := db.Create(&models.ScrapRate{Material: material, PricePerKg: rate}).Error; err != nil {
			return err
		}
	}
	return nil
}
