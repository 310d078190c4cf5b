package main

import (
	"time"

	"fieldbook/internal/config"
	"fieldbook/internal/database"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/auth"
	"fieldbook/internal/modules/availability"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/catalog"
	"fieldbook/internal/modules/notify"
	"fieldbook/internal/modules/review"
	"fieldbook/internal/pkg/cache"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/pkg/logger"
	"fieldbook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.L().Sync()

	if cfg.JWTSecret == "" {
		logger.L().Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis is optional; a nil cache degrades to direct reads.
	var c *cache.Cache
	if cfg.RedisAddr != "" {
		c, err = cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			time.Duration(cfg.CacheTTLSecs)*time.Second)
		if err != nil {
			logger.L().Warn("redis unavailable, running without cache", zap.Error(err))
			c = nil
		}
	}

	userRepo := repository.NewUserRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	hours := availability.Hours{
		OpenHour:    cfg.OpenHour,
		CloseHour:   cfg.CloseHour,
		SlotMinutes: cfg.SlotMinutes,
		HorizonDays: cfg.HorizonDays,
	}
	policy := booking.Policy{
		RefundNoticeDays:    cfg.RefundNoticeDays,
		CancellationFeeRate: cfg.CancellationFeeRate,
	}

	hub := notify.NewHub()
	defer hub.Close()
	notifyService := notify.NewService(hub)
	notifyHandler := notify.NewHandler(hub, tokens)

	authService := auth.NewService(userRepo, tokens)
	authHandler := auth.NewHandler(authService)

	availabilityService := availability.NewService(slotRepo, bookingRepo, fieldRepo, c, hours)
	availabilityHandler := availability.NewHandler(availabilityService)

	catalogService := catalog.NewService(fieldRepo, bookingRepo, availabilityService, c)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, fieldRepo, notifyService, c, hours, policy)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(bookingRepo)
	reviewHandler := review.NewHandler(reviewService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(tokens))
		{
			bookingHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)
			catalogHandler.RegisterOwnerRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
		{
			bookingHandler.RegisterAdminRoutes(admin)
		}

		// websocket authenticates via query token, outside the JWT header
		// middleware
		notifyHandler.RegisterRoutes(v1)
	}

	logger.L().Info("starting api server", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
