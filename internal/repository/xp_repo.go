package repository

import (
	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

type XPRepository struct {
	db *gorm.DB
}

func NewXPRepository(db *gorm.DB) *XPRepository {
	return &XPRepository{db: db}
}

// AwardResult is the state of a user's ledger right after one award.
type AwardResult struct {
	NewTotal  int
	NewLevel  int
	PrevLevel int
}

// Award applies one XP delta and appends the matching audit row in a single
// transaction. The experience column is incremented in SQL rather than
// read-modify-written in Go, so concurrent awards to the same user compose
// without lost updates; the level is recomputed from the post-increment total
// inside the same transaction.
func (r *XPRepository) Award(userID uint, amount int, action string) (*AwardResult, error) {
	var result AwardResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		upd := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("experience", gorm.Expr("experience + ?", amount))
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		var u models.User
		if err := tx.Select("id", "experience", "level").First(&u, userID).Error; err != nil {
			return err
		}
		newLevel := domain.LevelForXP(u.Experience)
		result = AwardResult{
			NewTotal:  u.Experience,
			NewLevel:  newLevel,
			PrevLevel: domain.LevelForXP(u.Experience - amount),
		}
		if newLevel != u.Level {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("level", newLevel).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.XPLog{
			UserID:   userID,
			Amount:   amount,
			Action:   action,
			NewTotal: u.Experience,
			NewLevel: newLevel,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// History returns the latest audit rows for a user, newest first.
func (r *XPRepository) History(userID uint, limit int) ([]models.XPLog, error) {
	var logs []models.XPLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// Leaderboard returns the top users by experience.
func (r *XPRepository) Leaderboard(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Select("id", "username", "experience", "level", "is_verified", "avatar_url").
		Order("experience DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
