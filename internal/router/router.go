package router

import (
	"time"

	"scrapto/config"
	"scrapto/internal/domain"
	"scrapto/internal/handler"
	"scrapto/internal/middleware"
	"scrapto/internal/repository"
	"scrapto/internal/service"
	"scrapto/internal/ws"
	"scrapto/pkg/cloudinary"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	scrapperRepo := repository.NewScrapperRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	pickupRepo := repository.NewPickupRepository(db)
	rateRepo := repository.NewRateRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, hub, log)
	withdrawalSvc := service.NewWithdrawalService(
		withdrawalRepo, walletRepo, notifSvc, log,
		decimal.NewFromFloat(cfg.Withdrawal.MinAmount),
	)
	pickupSvc := service.NewPickupService(
		pickupRepo, rateRepo, walletRepo, notifSvc, log,
		decimal.NewFromFloat(cfg.Pickup.MinBillableKg),
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	scrapperHandler := handler.NewScrapperHandler(scrapperRepo)
	walletHandler := handler.NewWalletHandler(walletRepo)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	pickupHandler := handler.NewPickupHandler(pickupSvc)
	rateHandler := handler.NewRateHandler(rateRepo)
	uploadHandler := handler.NewUploadHandler(cloud)
	adminHandler := handler.NewAdminHandler(adminRepo, scrapperRepo, pickupRepo, settingRepo, authSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	scrapperMw := middleware.RequireRole(domain.RoleScrapper)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		api.GET("/rates", rateHandler.List)
		api.GET("/pickups/estimate", pickupHandler.Estimate)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetBalance)
			me.GET("/wallet/transactions", walletHandler.ListTransactions)
			me.POST("/withdrawals", withdrawalHandler.Create)
			me.GET("/withdrawals", withdrawalHandler.ListMine)
			me.GET("/withdrawals/:id", withdrawalHandler.Get)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			me.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
			me.GET("/scrapper-profile", scrapperHandler.GetProfile)
			me.PUT("/scrapper-profile", scrapperMw, scrapperHandler.UpsertProfile)
		}

		pickups := api.Group("/pickups")
		pickups.Use(authMw)
		{
			pickups.POST("", pickupHandler.Create)
			pickups.GET("/mine", pickupHandler.ListMine)
			pickups.PATCH("/:id/cancel", pickupHandler.Cancel)
			pickups.GET("/open", scrapperMw, pickupHandler.ListOpen)
			pickups.GET("/assigned", scrapperMw, pickupHandler.ListAssigned)
			pickups.PATCH("/:id/accept", scrapperMw, pickupHandler.Accept)
			pickups.PATCH("/:id/collect", scrapperMw, pickupHandler.Collect)
		}

		uploads := api.Group("/uploads")
		uploads.Use(authMw)
		{
			uploads.POST("/scrap-photo", uploadHandler.UploadScrapPhoto)
			uploads.POST("/kyc-document", scrapperMw, uploadHandler.UploadKYCDocument)
		}

		// Token arrives via query string; browsers can't set headers on WS dial.
		api.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

		admin := api.Group("/admin")
		admin.POST("/login", adminHandler.AdminLogin)
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)
			admin.GET("/scrappers", adminHandler.ListScrappers)
			admin.PATCH("/scrappers/:userId/kyc", adminHandler.SetKYCVerified)
			admin.GET("/pickups", adminHandler.ListPickups)
			admin.GET("/withdrawals", withdrawalHandler.ListAll)
			admin.PATCH("/withdrawals/:id", withdrawalHandler.Resolve)
			admin.PUT("/rates/:material", rateHandler.Set)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings/:key", adminHandler.UpdateSetting)
			admin.GET("/analytics/pickups", adminHandler.PickupAnalytics)
			admin.GET("/analytics/signups", adminHandler.SignupAnalytics)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
