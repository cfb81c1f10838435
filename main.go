package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ozanyurt/voice-campaign-service/environments"
	"github.com/ozanyurt/voice-campaign-service/handlers"
	"github.com/ozanyurt/voice-campaign-service/internal/broadcast"
	"github.com/ozanyurt/voice-campaign-service/internal/dialer"
	"github.com/ozanyurt/voice-campaign-service/internal/repository"
	"github.com/ozanyurt/voice-campaign-service/internal/scheduler"
	"github.com/ozanyurt/voice-campaign-service/internal/service"
	"github.com/ozanyurt/voice-campaign-service/pkg/database"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
	"github.com/ozanyurt/voice-campaign-service/pkg/redis"
	"github.com/ozanyurt/voice-campaign-service/pkg/validator"
	"github.com/ozanyurt/voice-campaign-service/routes"

	_ "github.com/ozanyurt/voice-campaign-service/docs" // swagger docs
)

// @title Voice Campaign Service API
// @version 1.0
// @description Outbound voice campaign dispatch with pause/resume/stop control and live progress

// @contact.name API Support
// @contact.email ozan.yurt@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Auth.CampaignsAPIKey == "" {
		logger.Fatalf("CAMPAIGNS_API_KEY is required but not set")
	}
	if cfg.Auth.ContactsAPIKey == "" {
		logger.Fatalf("CONTACTS_API_KEY is required but not set")
	}

	logger.Infof("Starting Voice Campaign Service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis (processed-contact cache; the engine works without it)
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, resume fast-path disabled: %v", err)
		redisClient = nil
	}

	// Provider dialers
	registry := dialer.NewRegistry()
	registry.Register(dialer.ProviderTwilio, dialer.NewTwilioDialer(cfg.Twilio))
	registry.Register(dialer.ProviderCallHippo, dialer.NewCallHippoDialer(cfg.CallHippo))

	// Repositories
	campaignRepo := repository.NewCampaignRepository(db)
	contactRepo := repository.NewContactRepository(db)
	callLogRepo := repository.NewCallLogRepository(db)

	// Progress fan-out
	hub := broadcast.NewHub()

	// Retry policy for the executor
	policy := dialer.DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Dialer.MaxAttempts
	policy.Delay = cfg.Dialer.RetryDelay

	// Executor: redisClient may be nil; the executor falls back to the
	// call_logs table for the processed set.
	var executor *service.Executor
	if redisClient != nil {
		executor = service.NewExecutor(campaignRepo, contactRepo, callLogRepo, redisClient, registry, hub, policy)
	} else {
		executor = service.NewExecutor(campaignRepo, contactRepo, callLogRepo, nil, registry, hub, policy)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler trigger
	sched := scheduler.NewScheduler(ctx, executor, campaignRepo)
	if err := sched.Rearm(ctx); err != nil {
		logger.Warnf("Failed to re-arm scheduled campaigns: %v", err)
	}

	// Services
	campaignService := service.NewCampaignService(campaignRepo, sched)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, hub, sched)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	contactHandler := handlers.NewContactHandler(contactRepo)
	callHandler := handlers.NewCallHandler(callLogRepo)
	progressHandler := handlers.NewProgressHandler(hub)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-api-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, campaignHandler, contactHandler, callHandler, progressHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Cancel context to signal in-flight campaign runs to stop
	cancel()

	// Stop scheduler first (with timeout)
	logger.Infof("Stopping scheduler...")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
		logger.Infof("Scheduler stopped successfully")
	case <-stopCtx.Done():
		logger.Warnf("Scheduler stop timeout, forcing shutdown")
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
