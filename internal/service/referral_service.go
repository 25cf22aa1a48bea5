package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"

	"gorm.io/gorm"
)

// ReferralService issues, validates and redeems capped-use referral codes.
// Successful redemptions credit XP to both parties through the ledger.
type ReferralService struct {
	referralRepo *repository.ReferralRepository
	xp           *XPService
}

func NewReferralService(referralRepo *repository.ReferralRepository, xp *XPService) *ReferralService {
	return &ReferralService{referralRepo: referralRepo, xp: xp}
}

// Excludes 0/O and 1/I so codes survive being read aloud or handwritten.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

// IssueFor returns the user's active referral code, creating one if none
// exists. Idempotent: a user never holds two active codes, enforced by the
// unique active-owner column, so a concurrent double issue resolves to the
// winner's code.
func (s *ReferralService) IssueFor(userID uint) (*models.ReferralCode, error) {
	rc, err := s.referralRepo.GetActiveByCreator(userID)
	if err == nil {
		return rc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	for attempt := 0; attempt < domain.ReferralCodeGenAttempts; attempt++ {
		code, err := generateCode(domain.ReferralCodeLength)
		if err != nil {
			return nil, err
		}
		owner := userID
		rc := &models.ReferralCode{
			CreatorID:     userID,
			ActiveOwnerID: &owner,
			Code:          code,
			Status:        domain.ReferralStatusActive,
			MaxUses:       domain.ReferralCodeMaxUses,
		}
		err = s.referralRepo.Create(rc)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Either another request issued this user's code first, or the code
		// string collided. The former wins; the latter retries.
		if existing, gerr := s.referralRepo.GetActiveByCreator(userID); gerr == nil {
			return existing, nil
		}
	}
	log.Printf("[referral] code generation exhausted %d attempts for user %d", domain.ReferralCodeGenAttempts, userID)
	return nil, domain.ErrExhaustedRetries
}

// Deactivate retires the code. Only the owner may do this, and only while the
// code is still ACTIVE; deactivation is terminal.
func (s *ReferralService) Deactivate(codeID, requesterID uint) error {
	rc, err := s.referralRepo.GetByID(codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if rc.CreatorID != requesterID {
		return domain.ErrForbidden
	}
	return s.referralRepo.Deactivate(rc.ID)
}

// CodeSummary is what validation exposes about a code: enough for a signup
// form, nothing more.
type CodeSummary struct {
	Code     string `json:"code"`
	Creator  string `json:"creator"`
	UsesLeft int    `json:"uses_left"`
}

// ValidationResult is the outcome of checking a submitted code.
type ValidationResult struct {
	Valid   bool         `json:"valid"`
	Reason  string       `json:"reason,omitempty"`
	CodeID  uint         `json:"-"`
	Summary *CodeSummary `json:"referral_code,omitempty"`
}

// Validate checks a submitted code and reports why it cannot be used, if it
// cannot. Never returns a business failure as an error.
func (s *ReferralService) Validate(code string) (*ValidationResult, error) {
	rc, err := s.referralRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Valid: false, Reason: "referral code not found"}, nil
		}
		return nil, err
	}
	if rc.Status != domain.ReferralStatusActive {
		return &ValidationResult{Valid: false, Reason: "referral code is no longer active"}, nil
	}
	if rc.Exhausted() {
		return &ValidationResult{Valid: false, Reason: "referral code has reached maximum uses"}, nil
	}
	return &ValidationResult{
		Valid:  true,
		CodeID: rc.ID,
		Summary: &CodeSummary{
			Code:     rc.Code,
			Creator:  rc.Creator.Username,
			UsesLeft: rc.MaxUses - rc.CurrentUses,
		},
	}, nil
}

// Redeem consumes one use of the code for the redeemer and credits XP to both
// sides. The validity conditions are re-checked atomically with the increment,
// not trusted from an earlier Validate call.
//
// If the redemption commits but an award fails, the token state is kept (a
// retry would double-count the use); the inconsistency is logged for
// reconciliation and surfaced to the caller.
func (s *ReferralService) Redeem(code string, redeemerID uint) error {
	rc, err := s.referralRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !rc.Usable() {
		return domain.ErrInvalidState
	}
	used, err := s.referralRepo.UsageExists(rc.ID, redeemerID)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrAlreadyRedeemed
	}
	if err := s.referralRepo.Redeem(rc.ID, redeemerID); err != nil {
		return err
	}

	var awardErr error
	if _, err := s.xp.Award(redeemerID, domain.XPReferralUsed, domain.ActionReferralUsed); err != nil {
		log.Printf("[referral] redeemer award failed after redemption (code=%d user=%d): %v", rc.ID, redeemerID, err)
		awardErr = err
	}
	if _, err := s.xp.Award(rc.CreatorID, domain.XPReferralEarned, domain.ActionReferralEarned); err != nil {
		log.Printf("[referral] owner award failed after redemption (code=%d owner=%d): %v", rc.ID, rc.CreatorID, err)
		if awardErr == nil {
			awardErr = err
		}
	}
	if awardErr != nil {
		return fmt.Errorf("redemption recorded but XP awards incomplete: %w", awardErr)
	}
	return nil
}

// GetMine returns the requesting user's active code, if any.
func (s *ReferralService) GetMine(userID uint) (*models.ReferralCode, error) {
	rc, err := s.referralRepo.GetActiveByCreator(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}
