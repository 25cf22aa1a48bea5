package service

import (
	"sync"
	"testing"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardUpdatesTotalAndLevel(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	u := createUser(t, db, "alice")
	require.NoError(t, db.Model(u).Updates(map[string]interface{}{"experience": 150, "level": 1}).Error)

	out, err := svc.Award(u.ID, 100, domain.ActionThreadCreated)
	require.NoError(t, err)
	assert.Equal(t, 250, out.NewTotal)
	assert.Equal(t, 2, out.NewLevel)
	assert.True(t, out.LeveledUp)

	var fresh models.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.Equal(t, 250, fresh.Experience)
	assert.Equal(t, 2, fresh.Level)

	var logs []models.XPLog
	require.NoError(t, db.Where("user_id = ?", u.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, 100, logs[0].Amount)
	assert.Equal(t, domain.ActionThreadCreated, logs[0].Action)
	assert.Equal(t, 250, logs[0].NewTotal)
	assert.Equal(t, 2, logs[0].NewLevel)
}

func TestAwardNoLevelUp(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	u := createUser(t, db, "bob")

	out, err := svc.Award(u.ID, 10, domain.ActionThreadCreated)
	require.NoError(t, err)
	assert.Equal(t, 10, out.NewTotal)
	assert.Equal(t, 1, out.NewLevel)
	assert.False(t, out.LeveledUp)
}

func TestAwardUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)

	_, err := svc.Award(9999, 10, domain.ActionThreadCreated)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.XPLog{}).Count(&count).Error)
	assert.Zero(t, count, "no audit row without a user update")
}

func TestAwardConcurrentNoLostUpdates(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	u := createUser(t, db, "carol")

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Award(u.ID, 10, domain.ActionUpvoteGiven); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent award failed: %v", err)
	}

	var fresh models.User
	require.NoError(t, db.First(&fresh, u.ID).Error)
	assert.Equal(t, 500, fresh.Experience, "all 50 increments must compose")
	assert.Equal(t, domain.LevelForXP(500), fresh.Level)

	var logCount int64
	require.NoError(t, db.Model(&models.XPLog{}).Where("user_id = ?", u.ID).Count(&logCount).Error)
	assert.EqualValues(t, workers, logCount, "one audit row per award")
}

func TestHistoryNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	u := createUser(t, db, "dave")

	for i := 0; i < 3; i++ {
		_, err := svc.Award(u.ID, 10, domain.ActionThreadCreated)
		require.NoError(t, err)
	}
	history, err := svc.History(u.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 30, history[0].NewTotal)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	low := createUser(t, db, "low")
	high := createUser(t, db, "high")

	_, err := svc.Award(low.ID, 10, domain.ActionThreadCreated)
	require.NoError(t, err)
	_, err = svc.Award(high.ID, 300, domain.ActionChainCreated)
	require.NoError(t, err)

	entries, err := svc.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "high", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[0].Level)
	assert.Equal(t, "low", entries[1].Username)
}
