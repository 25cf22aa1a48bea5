package handler

import (
	"net/http"

	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/ws"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsRepo *repository.StatsRepository
	hub       *ws.UpdatesHub
}

func NewStatsHandler(statsRepo *repository.StatsRepository, hub *ws.UpdatesHub) *StatsHandler {
	return &StatsHandler{statsRepo: statsRepo, hub: hub}
}

// GET /stats
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	online := 0
	if h.hub != nil {
		online = h.hub.ClientCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"total_users":   stats.TotalUsers,
		"total_chains":  stats.TotalChains,
		"total_threads": stats.TotalThreads,
		"online_now":    online,
	})
}
