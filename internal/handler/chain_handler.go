package handler

import (
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/middleware"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/service"
	"github.com/nchhillar2004/chainex/internal/ws"

	"github.com/gin-gonic/gin"
)

type ChainHandler struct {
	chainRepo *repository.ChainRepository
	userRepo  *repository.UserRepository
	xpSvc     *service.XPService
	hub       *ws.UpdatesHub
}

func NewChainHandler(chainRepo *repository.ChainRepository, userRepo *repository.UserRepository, xpSvc *service.XPService, hub *ws.UpdatesHub) *ChainHandler {
	return &ChainHandler{chainRepo: chainRepo, userRepo: userRepo, xpSvc: xpSvc, hub: hub}
}

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// slugify keeps letter case, swaps whitespace runs for hyphens and drops
// anything else.
func slugify(name string) string {
	s := strings.Join(strings.Fields(name), "-")
	s = slugStrip.ReplaceAllString(s, "")
	return strings.Trim(s, "-")
}

type createChainRequest struct {
	Name        string   `json:"name" binding:"required,min=3,max=100"`
	Description string   `json:"description" binding:"max=1000"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	PostPolicy  string   `json:"post_policy" binding:"omitempty,oneof=VERIFIED_ONLY MODERATORS_ONLY LEVEL_BASED"`
	MinAge      *int     `json:"min_age"`
	MaxAge      *int     `json:"max_age"`
	Tags        []string `json:"tags"`
}

// POST /chains
func (h *ChainHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !u.IsVerified && !u.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must be verified to create a chain"})
		return
	}
	var req createChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slug := slugify(req.Name)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chain name must contain letters or digits"})
		return
	}
	exists, err := h.chainRepo.NameOrSlugExists(req.Name, slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chain"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "a chain with this name already exists"})
		return
	}
	if req.Visibility == "" {
		req.Visibility = domain.ChainVisibilityPublic
	}
	if req.PostPolicy == "" {
		req.PostPolicy = domain.PostPolicyVerifiedOnly
	}
	chain := &models.Chain{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		CreatorID:   u.ID,
		Visibility:  req.Visibility,
		PostPolicy:  req.PostPolicy,
		MinAge:      req.MinAge,
		MaxAge:      req.MaxAge,
	}
	if err := h.chainRepo.Create(chain); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create chain"})
		return
	}
	if len(req.Tags) > 0 {
		tags := req.Tags
		if len(tags) > domain.MaxTagsPerChain {
			tags = tags[:domain.MaxTagsPerChain]
		}
		if err := h.chainRepo.AttachTags(chain, tags); err != nil {
			log.Printf("[chain] attach tags failed for chain %d: %v", chain.ID, err)
		}
	}
	// Creator is the first member.
	if err := h.chainRepo.AddMember(u.ID, chain.ID); err != nil {
		log.Printf("[chain] creator membership failed for chain %d: %v", chain.ID, err)
	}
	if _, err := h.xpSvc.Award(u.ID, domain.XPChainCreated, domain.ActionChainCreated); err != nil {
		log.Printf("[chain] XP award failed for user %d: %v", u.ID, err)
	}
	if h.hub != nil {
		h.hub.ChainCreated(chain.ID, chain.Name, chain.Slug)
	}
	c.JSON(http.StatusCreated, gin.H{"chain": chain})
}

// GET /chains
func (h *ChainHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	chains, err := h.chainRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list chains"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

// GET /chains/popular
func (h *ChainHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	chains, err := h.chainRepo.ListPopular(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list chains"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chains": chains})
}

// GET /chains/:slug
func (h *ChainHandler) GetBySlug(c *gin.Context) {
	chain, err := h.chainRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chain": chain})
}

// POST /chains/:slug/join
func (h *ChainHandler) Join(c *gin.Context) {
	userID := middleware.GetUserID(c)
	chain, err := h.chainRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	if chain.CreatorID == userID {
		c.JSON(http.StatusConflict, gin.H{"error": "you are the creator of this chain"})
		return
	}
	member, err := h.chainRepo.IsMember(userID, chain.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join chain"})
		return
	}
	if member {
		c.JSON(http.StatusConflict, gin.H{"error": "you are already a member of this chain"})
		return
	}
	if chain.AgeRestricted() {
		u, err := h.userRepo.GetByID(userID)
		if err != nil || !u.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "you must be verified to join this chain"})
			return
		}
	}
	if err := h.chainRepo.AddMember(userID, chain.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join chain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true})
}

// POST /chains/:slug/leave
func (h *ChainHandler) Leave(c *gin.Context) {
	userID := middleware.GetUserID(c)
	chain, err := h.chainRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	if err := h.chainRepo.RemoveMember(userID, chain.ID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "you are not a member of this chain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": false})
}

// POST /chains/:slug/boost
func (h *ChainHandler) Boost(c *gin.Context) {
	userID := middleware.GetUserID(c)
	chain, err := h.chainRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	boosted, err := h.chainRepo.ToggleBoost(userID, chain.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not boost chain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"boosted": boosted})
}
