package repository

import (
	"errors"

	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

type ChainRepository struct {
	db *gorm.DB
}

func NewChainRepository(db *gorm.DB) *ChainRepository {
	return &ChainRepository{db: db}
}

func (r *ChainRepository) Create(chain *models.Chain) error {
	return r.db.Create(chain).Error
}

func (r *ChainRepository) GetByID(id uint) (*models.Chain, error) {
	var c models.Chain
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChainRepository) GetBySlug(slug string) (*models.Chain, error) {
	var c models.Chain
	if err := r.db.Preload("Tags").Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// NameOrSlugExists checks for an existing chain with the given name or slug.
func (r *ChainRepository) NameOrSlugExists(name, slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Chain{}).
		Where("name = ? OR slug = ?", name, slug).
		Count(&count).Error
	return count > 0, err
}

func (r *ChainRepository) List(limit, offset int) ([]models.Chain, error) {
	var chains []models.Chain
	err := r.db.Preload("Tags").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&chains).Error
	return chains, err
}

// ListPopular orders chains by boost count.
func (r *ChainRepository) ListPopular(limit int) ([]models.Chain, error) {
	var chains []models.Chain
	err := r.db.
		Joins("LEFT JOIN boosts ON boosts.chain_id = chains.id").
		Group("chains.id").
		Order("COUNT(boosts.id) DESC").
		Limit(limit).
		Find(&chains).Error
	return chains, err
}

func (r *ChainRepository) AddMember(userID, chainID uint) error {
	return r.db.Create(&models.ChainMember{UserID: userID, ChainID: chainID}).Error
}

func (r *ChainRepository) RemoveMember(userID, chainID uint) error {
	res := r.db.Where("user_id = ? AND chain_id = ?", userID, chainID).
		Delete(&models.ChainMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChainRepository) IsMember(userID, chainID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChainMember{}).
		Where("user_id = ? AND chain_id = ?", userID, chainID).
		Count(&count).Error
	return count > 0, err
}

// ToggleBoost adds a boost if absent, removes it if present. Returns whether
// the chain is boosted by the user afterwards.
func (r *ChainRepository) ToggleBoost(userID, chainID uint) (bool, error) {
	var boost models.Boost
	err := r.db.Where("user_id = ? AND chain_id = ?", userID, chainID).First(&boost).Error
	if err == nil {
		if err := r.db.Delete(&boost).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.Create(&models.Boost{UserID: userID, ChainID: chainID}).Error; err != nil {
		// A concurrent toggle may have won the insert; report boosted either way.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// AttachTags finds-or-creates each tag by name and links it to the chain.
func (r *ChainRepository) AttachTags(chain *models.Chain, names []string) error {
	for _, name := range names {
		var tag models.Tag
		if err := r.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return err
		}
		if err := r.db.Model(chain).Association("Tags").Append(&tag); err != nil {
			return err
		}
	}
	return nil
}
