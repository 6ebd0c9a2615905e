package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/staybook/service-booking/internal/application"
	"github.com/staybook/service-booking/internal/config"
	bookingDomain "github.com/staybook/service-booking/internal/domain/booking"
	bookingEvents "github.com/staybook/service-booking/internal/events"
	"github.com/staybook/service-booking/internal/handler"
	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/database"
	"github.com/staybook/service-booking/internal/platform/health"
	"github.com/staybook/service-booking/internal/platform/kafka"
	"github.com/staybook/service-booking/internal/platform/logger"
	"github.com/staybook/service-booking/internal/platform/middleware"
	"github.com/staybook/service-booking/internal/platform/rabbitmq"
	"github.com/staybook/service-booking/internal/platform/redis"
	"github.com/staybook/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL, cfg.JWTConfig.Issuer)

	// Kafka carries booking events out; RabbitMQ carries the audit trail.
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	auditPublisher := rabbitmq.NewPublisher(cfg.RabbitMQConfig.URL, cfg.AuditQueue, log)
	defer func() { _ = auditPublisher.Close() }()

	// Redis backs the rate limiter; requests pass through when it is down.
	var limiterStore goredis.Scripter
	if rdb := redis.NewClient(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB, log); rdb != nil {
		defer func() { _ = rdb.Close() }()
		limiterStore = rdb
	}

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	hotelRepo := repository.NewGormHotelRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	complaintRepo := repository.NewGormComplaintRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	auditRepo := repository.NewGormAuditRepository(db)

	// Initialize application services
	accountService := application.NewAccountService(userRepo, jwtManager, cfg.BcryptCost, log)
	hotelService := application.NewHotelService(hotelRepo, log)
	bookingService := application.NewBookingService(
		bookingRepo,
		hotelRepo,
		bookingDomain.NewNightlyPricingStrategy(),
		accountService.Guest,
		auditRepo,
		application.BookingPolicy{
			AutoConfirm: cfg.Booking.AutoConfirm,
			Currency:    cfg.Booking.Currency,
			MaxNights:   cfg.Booking.MaxNights,
		},
		kafkaProducer,
		auditPublisher,
		log,
	)
	reviewService := application.NewReviewService(reviewRepo, bookingService, kafkaProducer, auditPublisher, log)
	complaintService := application.NewComplaintService(complaintRepo, bookingService, kafkaProducer, auditPublisher, log)

	// Start consumers in goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	schedulerConsumer := bookingEvents.NewSchedulerEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = schedulerConsumer.Close() }()

	go func() {
		log.Info("starting scheduler event consumer")
		if err := schedulerConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("scheduler event consumer error", zap.Error(err))
		}
	}()

	auditConsumer := bookingEvents.NewAuditConsumer(cfg.RabbitMQConfig.URL, cfg.AuditQueue, auditRepo, log)
	go func() {
		log.Info("starting audit consumer", zap.String("queue", cfg.AuditQueue))
		if err := auditConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit, limiterStore, jwtManager, log))

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewAuthHandler(accountService, complaintService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewHotelHandler(hotelService, reviewService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService, reviewService, complaintService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewOwnerHandler(hotelService, bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(bookingService, hotelService, accountService, complaintService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
