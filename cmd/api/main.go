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

	"finview/internal/cache"
	"finview/internal/config"
	"finview/internal/database"
	"finview/internal/logger"
	"finview/internal/mailer"
	"finview/internal/middleware"
	"finview/internal/server"
	"finview/internal/services"
	"finview/internal/store"
	"finview/internal/validator"
)

// @title           FinView API
// @version         1.0
// @description     FinView is a personal finance application for planning monthly budgets.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional and only backs rate limiting.
	var limiter cache.Limiter
	if cfg.RedisURL != "" {
		c, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer c.Close()
		limiter = cache.NewRateLimiter(c, cfg.RateLimitAuthPerMinute, time.Minute)
		log.Infow("Rate limiting enabled", "per_minute", cfg.RateLimitAuthPerMinute)
	} else {
		log.Warn("REDIS_URL not set, auth endpoints are not rate limited")
	}
	if !cfg.MailConfigured() {
		log.Warn("SMTP not configured, password reset codes are written to the log")
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(store.NewBudgetStore(db), cfg.BudgetRecomputeOnSave)

	router := server.NewRouter(server.Deps{
		Users:          userService,
		Resets:         services.NewPasswordResetService(db, userService, mailer.New(cfg), cfg.OTPExpiresIn),
		Google:         services.NewGoogleVerifier(cfg.GoogleClientID),
		Budgets:        budgetService,
		Notifications:  services.NewNotificationService(budgetService),
		Audit:          services.NewAuditService(db),
		Tokens:         middleware.NewTokenIssuer(cfg),
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins(),
		HealthCheck:    dbManager.Ping,
		RequestLogging: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting FinView backend server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
