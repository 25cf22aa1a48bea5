package handler

import (
	"net/http"
	"strconv"

	"github.com/nchhillar2004/chainex/internal/middleware"
	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo *repository.UserRepository
	xpSvc    *service.XPService
}

func NewMeHandler(userRepo *repository.UserRepository, xpSvc *service.XPService) *MeHandler {
	return &MeHandler{userRepo: userRepo, xpSvc: xpSvc}
}

// GET /me/profile
func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// GET /me/xp/history
func (h *MeHandler) GetXPHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := h.xpSvc.History(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load XP history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
