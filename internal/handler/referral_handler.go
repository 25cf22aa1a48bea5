package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/middleware"
	"github.com/nchhillar2004/chainex/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc *service.ReferralService
}

func NewReferralHandler(referralSvc *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// GET /me/referral-code
func (h *ReferralHandler) GetMyCode(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rc, err := h.referralSvc.GetMine(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active referral code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get referral code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           rc.ID,
		"code":         rc.Code,
		"status":       rc.Status,
		"max_uses":     rc.MaxUses,
		"current_uses": rc.CurrentUses,
		"created_at":   rc.CreatedAt,
	})
}

// DELETE /me/referral-code/:id
func (h *ReferralHandler) Deactivate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral code id"})
		return
	}
	if err := h.referralSvc.Deactivate(uint(id), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "referral code not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to deactivate this referral code"})
		case errors.Is(err, domain.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "referral code is already inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not deactivate referral code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}

// GET /referrals/validate?code=
func (h *ReferralHandler) Validate(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	result, err := h.referralSvc.Validate(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not validate referral code"})
		return
	}
	c.JSON(http.StatusOK, result)
}
