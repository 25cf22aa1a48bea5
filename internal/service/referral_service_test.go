package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReferralService(db *gorm.DB) *ReferralService {
	xp := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	return NewReferralService(repository.NewReferralRepository(db), xp)
}

func TestIssueForCreatesActiveCode(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	u := createUser(t, db, "owner")

	rc, err := svc.IssueFor(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, rc.CreatorID)
	assert.Equal(t, domain.ReferralStatusActive, rc.Status)
	assert.Equal(t, domain.ReferralCodeMaxUses, rc.MaxUses)
	assert.Zero(t, rc.CurrentUses)
	assert.Len(t, rc.Code, domain.ReferralCodeLength)
	for _, ch := range rc.Code {
		assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected character %q", ch)
	}
}

func TestIssueForIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	u := createUser(t, db, "owner")

	first, err := svc.IssueFor(u.ID)
	require.NoError(t, err)
	second, err := svc.IssueFor(u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Code, second.Code)

	var count int64
	require.NoError(t, db.Model(&models.ReferralCode{}).Where("creator_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIssueForConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	u := createUser(t, db, "owner")

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan *models.ReferralCode, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := svc.IssueFor(u.ID)
			if err != nil {
				errs <- err
				return
			}
			results <- rc
		}()
	}
	wg.Wait()
	close(results)
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent issue failed: %v", err)
	}

	first := <-results
	require.NotNil(t, first)
	for rc := range results {
		assert.Equal(t, first.ID, rc.ID, "every caller must get the same token")
		assert.Equal(t, first.Code, rc.Code)
	}

	var count int64
	require.NoError(t, db.Model(&models.ReferralCode{}).Where("creator_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "a user never holds two active codes")
}

func TestIssueCollisionResolution(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewReferralRepository(db)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")

	winnerOwner := owner.ID
	winner := &models.ReferralCode{
		CreatorID:     owner.ID,
		ActiveOwnerID: &winnerOwner,
		Code:          "ABCDEF22",
		Status:        domain.ReferralStatusActive,
		MaxUses:       domain.ReferralCodeMaxUses,
	}
	require.NoError(t, repo.Create(winner))

	// A second ACTIVE code for the same user trips the active-owner slot; the
	// re-read then resolves to the winner's token.
	loserOwner := owner.ID
	err := repo.Create(&models.ReferralCode{
		CreatorID:     owner.ID,
		ActiveOwnerID: &loserOwner,
		Code:          "GHJKLM33",
		Status:        domain.ReferralStatusActive,
		MaxUses:       domain.ReferralCodeMaxUses,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	got, err := repo.GetActiveByCreator(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)

	// Reusing an existing code string for a different user trips the code
	// index instead: that user still holds no active code, so the issuer
	// retries with a fresh code rather than adopting someone else's.
	otherOwner := other.ID
	err = repo.Create(&models.ReferralCode{
		CreatorID:     other.ID,
		ActiveOwnerID: &otherOwner,
		Code:          "ABCDEF22",
		Status:        domain.ReferralStatusActive,
		MaxUses:       domain.ReferralCodeMaxUses,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	_, err = repo.GetActiveByCreator(other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	svc := newReferralService(db)
	rc, err := svc.IssueFor(other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, rc.CreatorID)
	assert.NotEqual(t, winner.Code, rc.Code)
}

func TestIssueForAfterDeactivation(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	u := createUser(t, db, "owner")

	first, err := svc.IssueFor(u.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(first.ID, u.ID))

	// Deactivation frees the slot but does not auto-issue a replacement.
	_, err = svc.GetMine(u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	second, err := svc.IssueFor(u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Code, second.Code, "codes are never recycled")
}

func TestDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)

	err = svc.Deactivate(rc.ID, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, domain.ReferralStatusActive, fresh.Status, "forbidden deactivation must not change state")

	require.NoError(t, svc.Deactivate(rc.ID, owner.ID))
	err = svc.Deactivate(rc.ID, owner.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = svc.Deactivate(9999, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidate(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)

	res, err := svc.Validate(rc.Code)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "owner", res.Summary.Creator)
	assert.Equal(t, domain.ReferralCodeMaxUses, res.Summary.UsesLeft)

	res, err = svc.Validate("NOSUCHCD")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "referral code not found", res.Reason)

	require.NoError(t, svc.Deactivate(rc.ID, owner.ID))
	res, err = svc.Validate(rc.Code)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "referral code is no longer active", res.Reason)
}

func TestValidateExhausted(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(rc).Update("current_uses", rc.MaxUses).Error)

	res, err := svc.Validate(rc.Code)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "referral code has reached maximum uses", res.Reason)
}

func TestRedeemAwardsBothParties(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")
	redeemer := createUser(t, db, "redeemer")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Redeem(rc.Code, redeemer.ID))

	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, 1, fresh.CurrentUses)

	var ownerRow, redeemerRow models.User
	require.NoError(t, db.First(&ownerRow, owner.ID).Error)
	require.NoError(t, db.First(&redeemerRow, redeemer.ID).Error)
	assert.Equal(t, domain.XPReferralEarned, ownerRow.Experience)
	assert.Equal(t, domain.XPReferralUsed, redeemerRow.Experience)

	var logs []models.XPLog
	require.NoError(t, db.Order("id ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.ActionReferralUsed, logs[0].Action)
	assert.Equal(t, domain.ActionReferralEarned, logs[1].Action)
}

func TestRedeemTwiceSameUser(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")
	redeemer := createUser(t, db, "redeemer")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Redeem(rc.Code, redeemer.ID))

	err = svc.Redeem(rc.Code, redeemer.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)

	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, 1, fresh.CurrentUses, "duplicate redemption must not consume a use")
}

func TestRedeemUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	redeemer := createUser(t, db, "redeemer")

	err := svc.Redeem("NOSUCHCD", redeemer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedeemCapEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)

	for i := 0; i < domain.ReferralCodeMaxUses; i++ {
		u := createUser(t, db, fmt.Sprintf("redeemer%d", i))
		require.NoError(t, svc.Redeem(rc.Code, u.ID))
	}

	sixth := createUser(t, db, "latecomer")
	err = svc.Redeem(rc.Code, sixth.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, domain.ReferralCodeMaxUses, fresh.CurrentUses)
}

func TestRedeemConcurrentDistinctUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)

	const contenders = 8
	users := make([]*models.User, contenders)
	for i := range users {
		users[i] = createUser(t, db, fmt.Sprintf("u%d", i))
	}

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for _, u := range users {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			results <- svc.Redeem(rc.Code, id)
		}(u.ID)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, domain.ReferralCodeMaxUses, succeeded, "exactly maxUses redemptions may succeed")

	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, domain.ReferralCodeMaxUses, fresh.CurrentUses, "uses must never exceed the cap")

	var usageCount int64
	require.NoError(t, db.Model(&models.ReferralUsage{}).Where("referral_code_id = ?", rc.ID).Count(&usageCount).Error)
	assert.EqualValues(t, domain.ReferralCodeMaxUses, usageCount)
}

func TestRedeemConcurrentSameUser(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	owner := createUser(t, db, "owner")
	redeemer := createUser(t, db, "redeemer")

	rc, err := svc.IssueFor(owner.ID)
	require.NoError(t, err)

	const attempts = 4
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Redeem(rc.Code, redeemer.ID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "the same user may redeem a code once")

	var fresh models.ReferralCode
	require.NoError(t, db.First(&fresh, rc.ID).Error)
	assert.Equal(t, 1, fresh.CurrentUses)
}
