package models

import (
	"time"

	"scrapto/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone        string         `gorm:"size:20;index" json:"phone"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:20;not null;index" json:"role"` // USER | SCRAPPER | ADMIN
	Address      string         `gorm:"size:512" json:"address"`
	City         string         `gorm:"size:100;index" json:"city"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	ScrapperProfile *ScrapperProfile `gorm:"foreignKey:UserID" json:"scrapper_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsScrapper() bool { return u.Role == domain.RoleScrapper }
func (u *User) IsAdmin() bool    { return u.Role == domain.RoleAdmin }

// RequesterType maps the account role to the tagged requester kind used on
// withdrawals and notifications. Admins have no wallet and no requester kind.
func (u *User) RequesterType() string {
	if u.Role == domain.RoleScrapper {
		return domain.RequesterTypeScrapper
	}
	return domain.RequesterTypeUser
}
