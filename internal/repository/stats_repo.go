package repository

import (
	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

// SiteStats are the public platform counters shown on the landing page.
type SiteStats struct {
	TotalUsers   int64 `json:"total_users"`
	TotalChains  int64 `json:"total_chains"`
	TotalThreads int64 `json:"total_threads"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Get() (*SiteStats, error) {
	var s SiteStats
	if err := r.db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Chain{}).Count(&s.TotalChains).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Thread{}).Count(&s.TotalThreads).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
