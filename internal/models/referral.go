package models

import (
	"time"

	"github.com/nchhillar2004/chainex/internal/domain"
)

// ReferralCode is a capped-use invite token. Codes are globally unique and
// never recycled, so inactive rows stay around forever.
//
// ActiveOwnerID mirrors CreatorID while the code is ACTIVE and is cleared on
// deactivation; its unique index is what enforces "at most one active code
// per user" even under concurrent issuance.
type ReferralCode struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatorID     uint      `gorm:"not null;index" json:"creator_id"`
	ActiveOwnerID *uint     `gorm:"uniqueIndex" json:"-"`
	Code          string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Status        string    `gorm:"size:10;not null;default:ACTIVE" json:"status"` // ACTIVE | INACTIVE
	MaxUses       int       `gorm:"not null;default:5" json:"max_uses"`
	CurrentUses   int       `gorm:"not null;default:0" json:"current_uses"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Creator User `gorm:"foreignKey:CreatorID" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

func (rc *ReferralCode) Exhausted() bool { return rc.CurrentUses >= rc.MaxUses }

// Usable reports whether the code can still be redeemed. Exhaustion counts as
// inactive even though the stored status is not flipped when the cap is hit.
func (rc *ReferralCode) Usable() bool {
	return rc.Status == domain.ReferralStatusActive && !rc.Exhausted()
}

// ReferralUsage records one redemption. The composite unique index blocks a
// user from redeeming the same code twice, including under concurrent requests.
type ReferralUsage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReferralCodeID uint      `gorm:"not null;uniqueIndex:idx_referral_usage_code_user" json:"referral_code_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_referral_usage_code_user" json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`

	ReferralCode ReferralCode `gorm:"foreignKey:ReferralCodeID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

func (ReferralUsage) TableName() string { return "referral_usages" }
