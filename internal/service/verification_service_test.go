package service

import (
	"testing"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVerificationService(db *gorm.DB) *VerificationService {
	xp := NewXPService(repository.NewXPRepository(db), repository.NewUserRepository(db), nil)
	referrals := NewReferralService(repository.NewReferralRepository(db), xp)
	return NewVerificationService(
		repository.NewVerificationRepository(db),
		repository.NewUserRepository(db),
		xp,
		referrals,
	)
}

func submitInput(code string) SubmitInput {
	return SubmitInput{
		FullName:     "Test Student",
		DOB:          "2004-01-15",
		SchoolName:   "Example High",
		DocumentURL:  "https://files.example.com/id.png",
		ReferralCode: code,
	}
}

func TestSubmitAndApprove(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "applicant")

	vr, err := svc.Submit(applicant.ID, submitInput(""))
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, vr.Status)

	require.NoError(t, svc.Approve(vr.ID))

	var u models.User
	require.NoError(t, db.First(&u, applicant.ID).Error)
	assert.True(t, u.IsVerified)
	assert.Equal(t, domain.XPVerificationCompleted, u.Experience)

	// Approval also issues the new member their own referral code.
	var rc models.ReferralCode
	require.NoError(t, db.Where("creator_id = ?", applicant.ID).First(&rc).Error)
	assert.Equal(t, domain.ReferralStatusActive, rc.Status)
}

func TestApproveRedeemsAttachedReferral(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	referrer := createUser(t, db, "referrer")
	applicant := createUser(t, db, "referred")

	referrals := newReferralService(db)
	ownerCode, err := referrals.IssueFor(referrer.ID)
	require.NoError(t, err)

	vr, err := svc.Submit(applicant.ID, submitInput(ownerCode.Code))
	require.NoError(t, err)
	require.NotNil(t, vr.ReferralCodeID)
	assert.Equal(t, ownerCode.ID, *vr.ReferralCodeID)

	require.NoError(t, svc.Approve(vr.ID))

	var rc models.ReferralCode
	require.NoError(t, db.First(&rc, ownerCode.ID).Error)
	assert.Equal(t, 1, rc.CurrentUses)

	var owner, redeemer models.User
	require.NoError(t, db.First(&owner, referrer.ID).Error)
	require.NoError(t, db.First(&redeemer, applicant.ID).Error)
	assert.Equal(t, domain.XPReferralEarned, owner.Experience)
	assert.Equal(t, domain.XPVerificationCompleted+domain.XPReferralUsed, redeemer.Experience)
}

func TestSubmitWithInvalidReferralCode(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "hopeful")

	_, err := svc.Submit(applicant.ID, submitInput("WRONGFUL"))
	assert.ErrorIs(t, err, ErrInvalidReferralCode)
}

func TestSubmitWhilePending(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "eager")

	_, err := svc.Submit(applicant.ID, submitInput(""))
	require.NoError(t, err)
	_, err = svc.Submit(applicant.ID, submitInput(""))
	assert.ErrorIs(t, err, ErrPendingApplication)
}

func TestSubmitAlreadyVerified(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "veteran")
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", applicant.ID).
		Update("is_verified", true).Error)

	_, err := svc.Submit(applicant.ID, submitInput(""))
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestApproveTwice(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "double")

	vr, err := svc.Submit(applicant.ID, submitInput(""))
	require.NoError(t, err)
	require.NoError(t, svc.Approve(vr.ID))
	assert.ErrorIs(t, svc.Approve(vr.ID), domain.ErrInvalidState)
}

func TestReject(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	applicant := createUser(t, db, "declined")

	vr, err := svc.Submit(applicant.ID, submitInput(""))
	require.NoError(t, err)
	require.NoError(t, svc.Reject(vr.ID, "document unreadable"))

	var stored models.VerificationRequest
	require.NoError(t, db.First(&stored, vr.ID).Error)
	assert.Equal(t, domain.VerificationRejected, stored.Status)
	assert.Equal(t, "document unreadable", stored.Remarks)

	var u models.User
	require.NoError(t, db.First(&u, applicant.ID).Error)
	assert.False(t, u.IsVerified)

	// A rejected applicant may apply again.
	_, err = svc.Submit(applicant.ID, submitInput(""))
	require.NoError(t, err)
}

func TestApproveUnknownApplication(t *testing.T) {
	db := newTestDB(t)
	svc := newVerificationService(db)
	assert.ErrorIs(t, svc.Approve(12345), domain.ErrNotFound)
}
