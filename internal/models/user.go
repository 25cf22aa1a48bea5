package models

import (
	"time"

	"github.com/nchhillar2004/chainex/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        *string        `gorm:"uniqueIndex;size:255" json:"email,omitempty"` // nil when not provided (avoids duplicate '' on unique index)
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         string         `gorm:"size:20;not null;default:USER;index" json:"role"` // USER | MODERATOR | ADMIN
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	Experience   int            `gorm:"not null;default:0" json:"experience"`
	Level        int            `gorm:"not null;default:1" json:"level"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool     { return u.Role == domain.RoleAdmin }
func (u *User) IsModerator() bool { return u.Role == domain.RoleModerator || u.Role == domain.RoleAdmin }
