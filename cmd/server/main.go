package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"zapshift/internal/app"
	"zapshift/internal/auth"
	"zapshift/internal/config"
	"zapshift/internal/handler"
	internalRedis "zapshift/internal/redis"
	"zapshift/internal/repository/postgres"
	"zapshift/internal/service"
)

func main() {
	// Load .env if present, then configuration.
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis-backed stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	riderRepo := postgres.NewRiderRepository(db)
	parcelRepo := postgres.NewParcelRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	trackingRepo := postgres.NewTrackingRepository(db)
	txManager := postgres.NewTxManager(db)

	// Auth.
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services.
	notifier := service.NewNotificationService()
	trackingService := service.NewTrackingService(trackingRepo)
	parcelService := service.NewParcelService(parcelRepo, riderRepo, txManager, lockStore, cacheStore, notifier)
	riderService := service.NewRiderService(riderRepo, userRepo, txManager, cacheStore)
	checkout := service.NewStripeCheckout(cfg.Checkout.SecretKey, cfg.Checkout.SuccessURL, cfg.Checkout.CancelURL)
	paymentService := service.NewPaymentService(parcelRepo, paymentRepo, txManager, checkout, cfg.Checkout.Currency, notifier)

	// Handlers.
	userHandler := handler.NewUserHandler(userRepo, tokenManager)
	parcelHandler := handler.NewParcelHandler(parcelService)
	riderHandler := handler.NewRiderHandler(riderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	trackingHandler := handler.NewTrackingHandler(trackingService)

	// Router.
	router := app.NewRouter(app.RouterDeps{
		ParcelHandler:   parcelHandler,
		RiderHandler:    riderHandler,
		UserHandler:     userHandler,
		PaymentHandler:  paymentHandler,
		TrackingHandler: trackingHandler,
		TokenManager:    tokenManager,
		UserRepo:        userRepo,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
