package repository

import (
	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(vr *models.VerificationRequest) error {
	return r.db.Create(vr).Error
}

func (r *VerificationRepository) GetByID(id uint) (*models.VerificationRequest, error) {
	var vr models.VerificationRequest
	if err := r.db.Preload("User").First(&vr, id).Error; err != nil {
		return nil, err
	}
	return &vr, nil
}

// HasPending reports whether the user already has a PENDING application.
func (r *VerificationRepository) HasPending(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, domain.VerificationPending).
		Count(&count).Error
	return count > 0, err
}

// SetStatus transitions a PENDING application to a terminal status. Returns
// domain.ErrInvalidState when the application was already processed, so two
// admins racing on the same application cannot both approve it.
func (r *VerificationRepository) SetStatus(id uint, status, remarks string) error {
	res := r.db.Model(&models.VerificationRequest{}).
		Where("id = ? AND status = ?", id, domain.VerificationPending).
		Updates(map[string]interface{}{"status": status, "remarks": remarks})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *VerificationRepository) ListPending(limit, offset int) ([]models.VerificationRequest, error) {
	var list []models.VerificationRequest
	err := r.db.Preload("User").
		Where("status = ?", domain.VerificationPending).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
