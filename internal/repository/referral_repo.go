package repository

import (
	"errors"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create inserts a new referral code. Returns gorm.ErrDuplicatedKey when the
// code string or the active-owner slot collides; callers decide which case
// applies by re-reading.
func (r *ReferralRepository) Create(rc *models.ReferralCode) error {
	return r.db.Create(rc).Error
}

func (r *ReferralRepository) GetByID(id uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.First(&rc, id).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *ReferralRepository) GetByCode(code string) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Preload("Creator").Where("code = ?", code).First(&rc).Error; err != nil {
		return nil, err
	}
	return &rc, nil
}

// GetActiveByCreator returns the creator's currently active code, if any.
func (r *ReferralRepository) GetActiveByCreator(userID uint) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := r.db.Where("creator_id = ? AND status = ?", userID, domain.ReferralStatusActive).
		First(&rc).Error
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// Deactivate flips an ACTIVE code to INACTIVE and frees the owner's active
// slot. Returns domain.ErrInvalidState when the code was not ACTIVE, so a
// repeated deactivation fails cleanly instead of rewriting the row.
func (r *ReferralRepository) Deactivate(id uint) error {
	res := r.db.Model(&models.ReferralCode{}).
		Where("id = ? AND status = ?", id, domain.ReferralStatusActive).
		Updates(map[string]interface{}{
			"status":          domain.ReferralStatusInactive,
			"active_owner_id": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// UsageExists reports whether the given user has already redeemed the code.
func (r *ReferralRepository) UsageExists(codeID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ReferralUsage{}).
		Where("referral_code_id = ? AND user_id = ?", codeID, userID).
		Count(&count).Error
	return count > 0, err
}

// Redeem consumes one use of the code for the given user as a single
// transaction: a conditional increment that re-validates status and capacity
// at write time, then the usage insert. The composite unique index on
// referral_usages turns a concurrent double redemption into a duplicate-key
// error, which rolls the increment back.
//
// Returns domain.ErrInvalidState when the code is no longer redeemable
// (deactivated or at capacity) and domain.ErrAlreadyRedeemed on a duplicate
// (code, user) pair.
func (r *ReferralRepository) Redeem(codeID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ReferralCode{}).
			Where("id = ? AND status = ? AND current_uses < max_uses", codeID, domain.ReferralStatusActive).
			UpdateColumn("current_uses", gorm.Expr("current_uses + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidState
		}
		if err := tx.Create(&models.ReferralUsage{ReferralCodeID: codeID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyRedeemed
			}
			return err
		}
		return nil
	})
}

// ListUsages returns redemptions of a code, newest first, with redeemers preloaded.
func (r *ReferralRepository) ListUsages(codeID uint, limit, offset int) ([]models.ReferralUsage, error) {
	var list []models.ReferralUsage
	err := r.db.Where("referral_code_id = ?", codeID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
