package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/middleware"
	"github.com/nchhillar2004/chainex/internal/models"
	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/service"
	"github.com/nchhillar2004/chainex/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ThreadHandler struct {
	threadRepo *repository.ThreadRepository
	chainRepo  *repository.ChainRepository
	userRepo   *repository.UserRepository
	xpSvc      *service.XPService
	hub        *ws.UpdatesHub
}

func NewThreadHandler(
	threadRepo *repository.ThreadRepository,
	chainRepo *repository.ChainRepository,
	userRepo *repository.UserRepository,
	xpSvc *service.XPService,
	hub *ws.UpdatesHub,
) *ThreadHandler {
	return &ThreadHandler{threadRepo: threadRepo, chainRepo: chainRepo, userRepo: userRepo, xpSvc: xpSvc, hub: hub}
}

type createThreadRequest struct {
	ChainID uint     `json:"chain_id" binding:"required"`
	Title   string   `json:"title" binding:"required,min=3,max=200"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// POST /threads
func (h *ThreadHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	chain, err := h.chainRepo.GetByID(req.ChainID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	member, err := h.chainRepo.IsMember(userID, chain.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create thread"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must be a member of this chain to create threads"})
		return
	}
	if msg := postPolicyViolation(chain, u); msg != "" {
		c.JSON(http.StatusForbidden, gin.H{"error": msg})
		return
	}
	thread := &models.Thread{
		Title:    req.Title,
		Content:  req.Content,
		ChainID:  chain.ID,
		AuthorID: u.ID,
	}
	if err := h.threadRepo.Create(thread); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create thread"})
		return
	}
	if len(req.Tags) > 0 {
		tags := req.Tags
		if len(tags) > domain.MaxTagsPerThread {
			tags = tags[:domain.MaxTagsPerThread]
		}
		if err := h.threadRepo.AttachTags(thread, tags); err != nil {
			log.Printf("[thread] attach tags failed for thread %d: %v", thread.ID, err)
		}
	}
	if _, err := h.xpSvc.Award(u.ID, domain.XPThreadCreated, domain.ActionThreadCreated); err != nil {
		log.Printf("[thread] XP award failed for user %d: %v", u.ID, err)
	}
	if h.hub != nil {
		h.hub.ThreadCreated(thread.ID, chain.ID, thread.Title, u.Username)
	}
	c.JSON(http.StatusCreated, gin.H{"thread": thread})
}

// postPolicyViolation checks the chain's posting policy against the author.
// Admins bypass every policy.
func postPolicyViolation(chain *models.Chain, u *models.User) string {
	if u.IsAdmin() {
		return ""
	}
	switch chain.PostPolicy {
	case domain.PostPolicyVerifiedOnly:
		if !u.IsVerified {
			return "only verified users can post in this chain"
		}
	case domain.PostPolicyModeratorsOnly:
		if !u.IsModerator() {
			return "only moderators can post in this chain"
		}
	case domain.PostPolicyLevelBased:
		if u.Level < domain.LevelBasedMinLevel {
			return "you need to be level 2 or higher to post in this chain"
		}
	}
	return ""
}

// GET /chains/:slug/threads
func (h *ThreadHandler) ListByChain(c *gin.Context) {
	chain, err := h.chainRepo.GetBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	threads, err := h.threadRepo.ListByChain(chain.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list threads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"threads": threads})
}

// GET /threads/:id
func (h *ThreadHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	thread, err := h.threadRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}
	up, down, err := h.threadRepo.VoteCounts(thread.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load thread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"thread": thread, "upvotes": up, "downvotes": down})
}

type replyRequest struct {
	Content string `json:"content" binding:"required"`
}

// POST /threads/:id/replies
func (h *ThreadHandler) CreateReply(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.threadRepo.GetByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}
	reply := &models.Reply{Content: req.Content, ThreadID: uint(id), AuthorID: userID}
	if err := h.threadRepo.CreateReply(reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create reply"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

// GET /threads/:id/replies
func (h *ThreadHandler) ListReplies(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	replies, err := h.threadRepo.ListReplies(uint(id), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list replies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

type voteRequest struct {
	VoteType string `json:"vote_type" binding:"required,oneof=UP DOWN"`
}

// POST /threads/:id/vote
//
// Voting toggles: an identical repeat vote removes the vote, a different one
// switches it. Only the first vote on a thread earns XP.
func (h *ThreadHandler) Vote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	threadID := uint(id)
	if _, err := h.threadRepo.GetByID(threadID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}
	existing, err := h.threadRepo.GetVote(userID, threadID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not vote"})
		return
	}
	if existing != nil {
		if existing.VoteType == req.VoteType {
			if err := h.threadRepo.DeleteVote(existing); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not vote"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"voted": false})
			return
		}
		existing.VoteType = req.VoteType
		if err := h.threadRepo.UpdateVote(existing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not vote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"voted": true})
		return
	}
	if err := h.threadRepo.CreateVote(&models.Vote{UserID: userID, ThreadID: threadID, VoteType: req.VoteType}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not vote"})
		return
	}
	amount, action := domain.XPUpvoteGiven, domain.ActionUpvoteGiven
	if req.VoteType == domain.VoteDown {
		amount, action = domain.XPDownvoteGiven, domain.ActionDownvoteGiven
	}
	if _, err := h.xpSvc.Award(userID, amount, action); err != nil {
		log.Printf("[thread] vote XP award failed for user %d: %v", userID, err)
	}
	c.JSON(http.StatusOK, gin.H{"voted": true})
}

// POST /threads/:id/pin
//
// Chain creators and admins only; toggles.
func (h *ThreadHandler) Pin(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid thread id"})
		return
	}
	thread, err := h.threadRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}
	chain, err := h.chainRepo.GetByID(thread.ChainID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chain not found"})
		return
	}
	if chain.CreatorID != userID && middleware.GetRole(c) != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "only chain creators can pin threads"})
		return
	}
	pinned, err := h.threadRepo.TogglePin(chain.ID, thread.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not pin thread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": pinned})
}
