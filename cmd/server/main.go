package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shareit-app/shareit/internal/application"
	"github.com/shareit-app/shareit/internal/cache"
	"github.com/shareit-app/shareit/internal/config"
	userDomain "github.com/shareit-app/shareit/internal/domain/user"
	"github.com/shareit-app/shareit/internal/events"
	"github.com/shareit-app/shareit/internal/handler"
	"github.com/shareit-app/shareit/internal/logger"
	"github.com/shareit-app/shareit/internal/metrics"
	"github.com/shareit-app/shareit/internal/repository"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "shareit-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting shareit-server",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := repository.Connect(cfg.DB.DSN(), log)
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
		if err := repository.RunMigrations(cfg.DB.URL(), log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize Kafka producer
	var publisher application.EventPublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := events.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = kafkaProducer
	} else {
		log.Warn("no Kafka brokers configured, booking events are discarded")
	}

	// Initialize repositories
	var userRepo userDomain.Repository = repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Put the Redis cache in front of user lookups when configured
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = redisClient.Close() }()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := cache.Ping(pingCtx, redisClient)
		pingCancel()
		if err != nil {
			log.Warn("redis unreachable, user cache will fall through", zap.Error(err))
		}
		userRepo = cache.NewUserRepository(userRepo, redisClient, cfg.Redis.UserCacheTTL, log)
	}

	// Initialize application services
	services := handler.Services{
		Users:    application.NewUserService(userRepo, log),
		Items:    application.NewItemService(itemRepo, commentRepo, bookingRepo, userRepo, requestRepo, log),
		Requests: application.NewRequestService(requestRepo, itemRepo, userRepo, log),
		Bookings: application.NewBookingService(
			bookingRepo,
			itemRepo,
			userRepo,
			repository.NewTransactor(db),
			publisher,
			log,
		),
	}

	// Setup Gin router
	metrics.Register()
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(log, handler.NewHealthHandler(db, "shareit-server"), services)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down shareit-server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("shareit-server stopped")
}
