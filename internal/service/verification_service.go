package service

import (
	"errors"
	"log"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyVerified     = errors.New("user is already verified")
	ErrPendingApplication  = errors.New("a pending verification request already exists")
	ErrInvalidReferralCode = errors.New("invalid referral code")
)

// VerificationService runs the student-verification pipeline. Approval is the
// moment a user becomes a full member: it flips the verified flag, pays out
// XP, redeems the referral code attached at submission and issues the new
// member's own code.
type VerificationService struct {
	verificationRepo *repository.VerificationRepository
	userRepo         *repository.UserRepository
	xp               *XPService
	referrals        *ReferralService
}

func NewVerificationService(
	verificationRepo *repository.VerificationRepository,
	userRepo *repository.UserRepository,
	xp *XPService,
	referrals *ReferralService,
) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		xp:               xp,
		referrals:        referrals,
	}
}

// SubmitInput is a verification application as entered on the form. The
// document is referenced by URL; upload handling lives outside this service.
type SubmitInput struct {
	FullName     string
	DOB          string
	SchoolName   string
	SchoolEmail  *string
	DocumentURL  string
	ReferralCode string
}

func (s *VerificationService) Submit(userID uint, in SubmitInput) (*models.VerificationRequest, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if u.IsVerified {
		return nil, ErrAlreadyVerified
	}
	pending, err := s.verificationRepo.HasPending(userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrPendingApplication
	}

	var referralCodeID *uint
	if in.ReferralCode != "" {
		validation, err := s.referrals.Validate(in.ReferralCode)
		if err != nil {
			return nil, err
		}
		if !validation.Valid {
			return nil, ErrInvalidReferralCode
		}
		id := validation.CodeID
		referralCodeID = &id
	}

	vr := &models.VerificationRequest{
		UserID:         userID,
		FullName:       in.FullName,
		DOB:            in.DOB,
		SchoolName:     in.SchoolName,
		SchoolEmail:    in.SchoolEmail,
		DocumentURL:    in.DocumentURL,
		ReferralCodeID: referralCodeID,
		Status:         domain.VerificationPending,
	}
	if err := s.verificationRepo.Create(vr); err != nil {
		return nil, err
	}
	return vr, nil
}

// Approve processes a pending application. The status transition is
// conditional on PENDING, so two admins racing on the same application cannot
// both approve it. Post-approval side effects (XP, referral redemption, code
// issuance) run after the transition commits; their failures are logged as
// reconciliation items rather than un-verifying the user.
func (s *VerificationService) Approve(applicationID uint) error {
	vr, err := s.verificationRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if err := s.verificationRepo.SetStatus(vr.ID, domain.VerificationApproved, ""); err != nil {
		return err
	}
	if err := s.userRepo.SetVerified(vr.UserID); err != nil {
		return err
	}
	if _, err := s.xp.Award(vr.UserID, domain.XPVerificationCompleted, domain.ActionVerificationCompleted); err != nil {
		log.Printf("[verification] XP award failed for user %d: %v", vr.UserID, err)
	}
	if vr.ReferralCodeID != nil {
		if err := s.redeemAttachedCode(*vr.ReferralCodeID, vr.UserID); err != nil {
			log.Printf("[verification] referral redemption failed (code=%d user=%d): %v", *vr.ReferralCodeID, vr.UserID, err)
		}
	}
	if _, err := s.referrals.IssueFor(vr.UserID); err != nil {
		log.Printf("[verification] referral code issuance failed for user %d: %v", vr.UserID, err)
	}
	return nil
}

func (s *VerificationService) redeemAttachedCode(codeID, userID uint) error {
	rc, err := s.referrals.referralRepo.GetByID(codeID)
	if err != nil {
		return err
	}
	return s.referrals.Redeem(rc.Code, userID)
}

func (s *VerificationService) Reject(applicationID uint, remarks string) error {
	_, err := s.verificationRepo.GetByID(applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.verificationRepo.SetStatus(applicationID, domain.VerificationRejected, remarks)
}

func (s *VerificationService) ListPending(limit, offset int) ([]models.VerificationRequest, error) {
	return s.verificationRepo.ListPending(limit, offset)
}
