package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridemarket/internal/config"
	"ridemarket/internal/database"
	"ridemarket/internal/middleware"
	"ridemarket/internal/modules/admin"
	"ridemarket/internal/modules/auth"
	"ridemarket/internal/modules/booking"
	"ridemarket/internal/modules/payment"
	"ridemarket/internal/modules/review"
	"ridemarket/internal/modules/seatfeed"
	"ridemarket/internal/modules/trips"
	jwtsvc "ridemarket/internal/pkg/jwt"
	"ridemarket/internal/pkg/logger"
	"ridemarket/internal/repository"
	"ridemarket/internal/seathold"
	"ridemarket/internal/seatmap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	passengerRepo := repository.NewPassengerRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	holds := seathold.New(rdb, cfg.SeatHoldTTL)
	hub := seatfeed.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	tripService := trips.NewService(tripRepo, bookingRepo, seatmap.DefaultRules)
	tripHandler := trips.NewHandler(tripService)

	bookingService := booking.NewService(bookingRepo, tripRepo, passengerRepo, holds, hub, seatmap.DefaultRules)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo, hub, zl, payment.Config{
		PaytmMID:         cfg.PaytmMID,
		PaytmKey:         cfg.PaytmKey,
		PaytmWebsite:     cfg.PaytmWebsite,
		PaytmEnv:         cfg.PaytmEnv,
		PaytmCallbackURL: cfg.PaytmCallbackURL,

		StripeSecretKey:     cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		StripeSuccessURL:    cfg.StripeSuccessURL,
		StripeCancelURL:     cfg.StripeCancelURL,
	})
	paymentHandler := payment.NewHandler(paymentService)

	reviewService := review.NewService(reviewRepo, bookingRepo)
	reviewHandler := review.NewHandler(reviewService)

	adminService := admin.NewService(vehicleRepo, tripRepo)
	adminHandler := admin.NewHandler(adminService)

	feedHandler := seatfeed.NewHandler(hub, zl)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(zl))
	r.Use(middleware.RequestLogger(zl))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, cfg.RateLimit, cfg.RateWindow))
	{
		// public
		authHandler.RegisterRoutes(v1)
		tripHandler.RegisterRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterCallbackRoutes(v1)
		feedHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			reviewHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminGroup)
			}
		}
	}

	zl.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
