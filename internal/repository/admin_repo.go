package repository

import (
	"scrapto/internal/domain"
	"scrapto/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardStats struct {
	TotalUsers            int64           `json:"total_users"`
	TotalScrappers        int64           `json:"total_scrappers"`
	TotalPickups          int64           `json:"total_pickups"`
	OpenPickups           int64           `json:"open_pickups"`
	CollectedPickups      int64           `json:"collected_pickups"`
	PendingWithdrawals    int64           `json:"pending_withdrawals"`
	TotalWithdrawals      int64           `json:"total_withdrawals"`
	TotalPaidOut          decimal.Decimal `json:"total_paid_out"`
	TotalScrapValue       decimal.Decimal `json:"total_scrap_value"`
	UnverifiedScrappers   int64           `json:"unverified_scrappers"`
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetDashboardStats() (*DashboardStats, error) {
	var s DashboardStats
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser).Count(&s.TotalUsers)
	r.db.Model(&models.User{}).Where("role = ?", domain.RoleScrapper).Count(&s.TotalScrappers)
	r.db.Model(&models.PickupRequest{}).Count(&s.TotalPickups)
	r.db.Model(&models.PickupRequest{}).Where("status = ?", domain.PickupStatusRequested).Count(&s.OpenPickups)
	r.db.Model(&models.PickupRequest{}).Where("status = ?", domain.PickupStatusCollected).Count(&s.CollectedPickups)
	r.db.Model(&models.WithdrawalRequest{}).Where("status = ?", domain.WithdrawalStatusPending).Count(&s.PendingWithdrawals)
	r.db.Model(&models.WithdrawalRequest{}).Count(&s.TotalWithdrawals)
	r.db.Model(&models.ScrapperProfile{}).Where("kyc_verified = ?", false).Count(&s.UnverifiedScrappers)

	var paid struct{ Total decimal.Decimal }
	r.db.Model(&models.WithdrawalRequest{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("status = ?", domain.WithdrawalStatusProcessed).
		Scan(&paid)
	s.TotalPaidOut = paid.Total

	var scrap struct{ Total decimal.Decimal }
	r.db.Model(&models.PickupRequest{}).
		Select("COALESCE(SUM(final_amount), 0) as total").
		Where("status = ?", domain.PickupStatusCollected).
		Scan(&scrap)
	s.TotalScrapValue = scrap.Total

	return &s, nil
}

// ListUsers returns accounts with search, role filter, and pagination.
func (r *AdminRepository) ListUsers(search, role string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("username LIKE ? OR email LIKE ? OR phone LIKE ?", "%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Preload("ScrapperProfile").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}

func (r *AdminRepository) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Preload("ScrapperProfile").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AdminRepository) UpdateUser(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// PickupsByDay returns daily pickup submission counts for the last N days.
func (r *AdminRepository) PickupsByDay(days int) ([]TimeSeriesPoint, error) {
	var points []TimeSeriesPoint
	err := r.db.Model(&models.PickupRequest{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= DATE_SUB(CURDATE(), INTERVAL ? DAY)", days).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}

// SignupsByDay returns daily signup counts for the last N days.
func (r *AdminRepository) SignupsByDay(days int) ([]TimeSeriesPoint, error) {
	var points []TimeSeriesPoint
	err := r.db.Model(&models.User{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= DATE_SUB(CURDATE(), INTERVAL ? DAY)", days).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&points).Error
	return points, err
}
