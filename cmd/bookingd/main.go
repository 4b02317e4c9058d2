package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"rental-booking-backend/config"
	"rental-booking-backend/internal/api"
	"rental-booking-backend/internal/booking"
	"rental-booking-backend/internal/db"
	"rental-booking-backend/internal/notification"
	"rental-booking-backend/internal/sweep"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "booking-backend ", log.LstdFlags)

	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.AccessTokenSecret == "" || cfg.Auth.GuestTokenSecret == "" {
		logger.Fatalf("auth token secrets must be configured")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Booking engine
	svc := booking.NewGormService(gormDB, booking.Config{
		CancellationLead: cfg.Booking.CancellationLead,
		GuestTokenSecret: cfg.Auth.GuestTokenSecret,
		GuestTokenTTL:    time.Duration(cfg.Auth.GuestTokenTTLHours) * time.Hour,
		DefaultCurrency:  cfg.Booking.DefaultCurrency,
	})
	logger.Println("booking service initialized")

	// Owner notification workers
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	pool.Start(ctx)

	// Expiration sweeper runs in the background
	sweeper := sweep.NewRunner(&cfg.Booking, svc)
	go sweeper.Run(ctx)

	// Initialize router
	router := api.NewRouter(cfg, svc, pool, &webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
