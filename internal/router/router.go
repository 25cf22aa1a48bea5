package router

import (
	"strconv"
	"time"

	"github.com/nchhillar2004/chainex/config"
	"github.com/nchhillar2004/chainex/internal/domain"
	"github.com/nchhillar2004/chainex/internal/handler"
	"github.com/nchhillar2004/chainex/internal/middleware"
	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/service"
	"github.com/nchhillar2004/chainex/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, hub *ws.UpdatesHub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	xpRepo := repository.NewXPRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	chainRepo := repository.NewChainRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	_ = settingRepo.SeedDefaults(map[string]string{
		domain.SettingUserCap:          strconv.Itoa(cfg.Platform.UserCap),
		domain.SettingLeaderboardLimit: strconv.Itoa(cfg.Platform.LeaderboardLimit),
	})

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	xpSvc := service.NewXPService(xpRepo, userRepo, hub)
	referralSvc := service.NewReferralService(referralRepo, xpSvc)
	verificationSvc := service.NewVerificationService(verificationRepo, userRepo, xpSvc, referralSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(userRepo, xpSvc)
	chainHandler := handler.NewChainHandler(chainRepo, userRepo, xpSvc, hub)
	threadHandler := handler.NewThreadHandler(threadRepo, chainRepo, userRepo, xpSvc, hub)
	referralHandler := handler.NewReferralHandler(referralSvc)
	xpHandler := handler.NewXPHandler(xpSvc, cfg.Platform.LeaderboardLimit)
	verificationHandler := handler.NewVerificationHandler(verificationSvc)
	statsHandler := handler.NewStatsHandler(statsRepo, hub)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/stats", statsHandler.Get)
		api.GET("/xp/leaderboard", xpHandler.Leaderboard)
		api.GET("/referrals/validate", referralHandler.Validate)

		api.GET("/chains", chainHandler.List)
		api.GET("/chains/popular", chainHandler.Popular)
		api.GET("/chains/:slug", chainHandler.GetBySlug)
		api.GET("/chains/:slug/threads", threadHandler.ListByChain)
		api.GET("/threads/:id", threadHandler.Get)
		api.GET("/threads/:id/replies", threadHandler.ListReplies)

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.GET("/me/profile", meHandler.GetProfile)
			authed.GET("/me/xp/history", meHandler.GetXPHistory)
			authed.GET("/me/referral-code", referralHandler.GetMyCode)
			authed.DELETE("/me/referral-code/:id", referralHandler.Deactivate)

			authed.POST("/chains", chainHandler.Create)
			authed.POST("/chains/:slug/join", chainHandler.Join)
			authed.POST("/chains/:slug/leave", chainHandler.Leave)
			authed.POST("/chains/:slug/boost", chainHandler.Boost)

			authed.POST("/threads", threadHandler.Create)
			authed.POST("/threads/:id/replies", threadHandler.CreateReply)
			authed.POST("/threads/:id/vote", threadHandler.Vote)
			authed.POST("/threads/:id/pin", threadHandler.Pin)

			authed.POST("/verification", verificationHandler.Submit)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/verification", verificationHandler.ListPending)
			admin.POST("/verification/:id/approve", verificationHandler.Approve)
			admin.POST("/verification/:id/reject", verificationHandler.Reject)
		}

		api.GET("/ws/updates", ws.UpgradeUpdatesWS(&cfg.JWT, hub))
	}

	return r
}
