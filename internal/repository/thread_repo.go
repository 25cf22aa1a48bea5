package repository

import (
	"errors"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"

	"gorm.io/gorm"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

func (r *ThreadRepository) Create(t *models.Thread) error {
	return r.db.Create(t).Error
}

func (r *ThreadRepository) GetByID(id uint) (*models.Thread, error) {
	var t models.Thread
	if err := r.db.Preload("Author").Preload("Tags").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByChain returns threads for a chain, pinned first, then newest.
func (r *ThreadRepository) ListByChain(chainID uint, limit, offset int) ([]models.Thread, error) {
	var threads []models.Thread
	err := r.db.Preload("Author").Preload("Tags").
		Joins("LEFT JOIN pinned_threads ON pinned_threads.thread_id = threads.id AND pinned_threads.chain_id = threads.chain_id").
		Where("threads.chain_id = ?", chainID).
		Order("pinned_threads.id IS NULL, threads.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&threads).Error
	return threads, err
}

func (r *ThreadRepository) CreateReply(reply *models.Reply) error {
	return r.db.Create(reply).Error
}

func (r *ThreadRepository) ListReplies(threadID uint, limit, offset int) ([]models.Reply, error) {
	var replies []models.Reply
	err := r.db.Preload("Author").
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&replies).Error
	return replies, err
}

func (r *ThreadRepository) GetVote(userID, threadID uint) (*models.Vote, error) {
	var v models.Vote
	err := r.db.Where("user_id = ? AND thread_id = ?", userID, threadID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ThreadRepository) CreateVote(v *models.Vote) error {
	return r.db.Create(v).Error
}

func (r *ThreadRepository) UpdateVote(v *models.Vote) error {
	return r.db.Model(v).Update("vote_type", v.VoteType).Error
}

func (r *ThreadRepository) DeleteVote(v *models.Vote) error {
	return r.db.Delete(v).Error
}

// VoteCounts returns the UP and DOWN counts for a thread.
func (r *ThreadRepository) VoteCounts(threadID uint) (up int64, down int64, err error) {
	if err = r.db.Model(&models.Vote{}).
		Where("thread_id = ? AND vote_type = ?", threadID, domain.VoteUp).Count(&up).Error; err != nil {
		return
	}
	err = r.db.Model(&models.Vote{}).
		Where("thread_id = ? AND vote_type = ?", threadID, domain.VoteDown).Count(&down).Error
	return
}

// TogglePin pins the thread in its chain, or unpins it if already pinned.
// Returns whether the thread is pinned afterwards.
func (r *ThreadRepository) TogglePin(chainID, threadID uint) (bool, error) {
	var pin models.PinnedThread
	err := r.db.Where("chain_id = ? AND thread_id = ?", chainID, threadID).First(&pin).Error
	if err == nil {
		if err := r.db.Delete(&pin).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.db.Create(&models.PinnedThread{ChainID: chainID, ThreadID: threadID}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AttachTags finds-or-creates each tag by name and links it to the thread.
func (r *ThreadRepository) AttachTags(t *models.Thread, names []string) error {
	for _, name := range names {
		var tag models.Tag
		if err := r.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return err
		}
		if err := r.db.Model(t).Association("Tags").Append(&tag); err != nil {
			return err
		}
	}
	return nil
}
