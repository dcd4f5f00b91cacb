package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/jobtrackr/backend/config"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/handler"
	"github.com/jobtrackr/backend/internal/middleware"
	"github.com/jobtrackr/backend/internal/repository"
	"github.com/jobtrackr/backend/internal/router"
	"github.com/jobtrackr/backend/internal/service"
	"github.com/jobtrackr/backend/internal/worker/cleanup"
	"github.com/jobtrackr/backend/pkg/database"
	"github.com/jobtrackr/backend/pkg/geoip"
	"github.com/jobtrackr/backend/pkg/logger"
	"github.com/jobtrackr/backend/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.SeedAdmin(db); err != nil {
		// Don't fail - seed data may already exist
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	geoClient := geoip.NewClient(geoip.Config{
		Endpoint: config.Geo.Endpoint,
		Timeout:  config.Geo.Timeout,
		CacheTTL: config.Geo.CacheTTL,
	}, redisClient, logger.GetLogger())

	// Services
	tokenService := service.NewTokenService(config.JWT.Secret, config.JWT.Lifetime)
	sessionService := service.NewSessionService(sessionRepo, geoClient, config.Session.TTL, logger.GetLogger())
	authService := service.NewAuthService(userRepo, tokenService, sessionService, logger.GetLogger())
	applicationService := service.NewApplicationService(applicationRepo, logger.GetLogger())
	letterService, err := service.NewLetterService(applicationService, authService, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to parse letter templates", zap.Error(err))
	}
	reportService := service.NewReportService(applicationService, authService, logger.GetLogger())
	googleProvider := service.NewGoogleProvider(
		config.OAuth.GoogleClientID,
		config.OAuth.GoogleClientSecret,
		config.OAuth.GoogleCallbackURL,
		logger.GetLogger(),
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, googleProvider, config.App.FrontendOrigin)
	adminHandler := handler.NewAdminHandler(sessionService)
	applicationHandler := handler.NewApplicationHandler(applicationService, letterService, reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	jwtMiddleware := middleware.NewJWTMiddleware(tokenService, userRepo)

	engine := router.NewRouter(
		authHandler,
		adminHandler,
		applicationHandler,
		healthHandler,
		jwtMiddleware,
		config,
	).SetupRoutes(googleProvider.Enabled())

	// Background sweep of expired session records
	workerCtx, stopWorker := context.WithCancel(context.Background())
	sweeper := cleanup.New(sessionRepo, config.Session.SweepInterval, logger.GetLogger())
	go sweeper.Run(workerCtx)

	srv := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}

	// Drain in-flight session writes before the process exits
	sessionService.Wait()

	logger.GetLogger().Info("Server stopped")
}
