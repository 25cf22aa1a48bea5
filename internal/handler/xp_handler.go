package handler

import (
	"net/http"
	"strconv"

	"github.com/nchhillar2004/chainex/internal/service"

	"github.com/gin-gonic/gin"
)

type XPHandler struct {
	xpSvc        *service.XPService
	defaultLimit int
}

func NewXPHandler(xpSvc *service.XPService, defaultLimit int) *XPHandler {
	return &XPHandler{xpSvc: xpSvc, defaultLimit: defaultLimit}
}

// GET /xp/leaderboard
func (h *XPHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = h.defaultLimit
	}
	entries, err := h.xpSvc.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
