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

type VerificationHandler struct {
	verificationSvc *service.VerificationService
}

func NewVerificationHandler(verificationSvc *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationSvc: verificationSvc}
}

type submitVerificationRequest struct {
	FullName     string  `json:"full_name" binding:"required"`
	DOB          string  `json:"dob" binding:"required"`
	SchoolName   string  `json:"school_name" binding:"required"`
	SchoolEmail  *string `json:"school_email" binding:"omitempty,email"`
	DocumentURL  string  `json:"document_url" binding:"required"`
	ReferralCode string  `json:"referral_code"`
}

// POST /verification
func (h *VerificationHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req submitVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vr, err := h.verificationSvc.Submit(userID, service.SubmitInput{
		FullName:     req.FullName,
		DOB:          req.DOB,
		SchoolName:   req.SchoolName,
		SchoolEmail:  req.SchoolEmail,
		DocumentURL:  req.DocumentURL,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			c.JSON(http.StatusConflict, gin.H{"error": "you are already verified"})
		case errors.Is(err, service.ErrPendingApplication):
			c.JSON(http.StatusConflict, gin.H{"error": "you already have a pending verification request"})
		case errors.Is(err, service.ErrInvalidReferralCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral code"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit verification"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": vr})
}

// GET /admin/verification (admin)
func (h *VerificationHandler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.verificationSvc.ListPending(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list applications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": list})
}

// POST /admin/verification/:id/approve (admin)
func (h *VerificationHandler) Approve(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	if err := h.verificationSvc.Approve(uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "verification request not found"})
		case errors.Is(err, domain.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "this application has already been processed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve verification"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": true})
}

type rejectRequest struct {
	Remarks string `json:"remarks" binding:"required,max=500"`
}

// POST /admin/verification/:id/reject (admin)
func (h *VerificationHandler) Reject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.verificationSvc.Reject(uint(id), req.Remarks); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "verification request not found"})
		case errors.Is(err, domain.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "this application has already been processed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reject verification"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"rejected": true})
}
