package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	api "github.com/dhanushns/MRMPG-BACKEND-sub002/internal/api/http"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/config"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository/postgres"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/security"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/service"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; explicit environment still wins over YAML.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MRM PG server...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db, cfg.QueryTimeout())

	files, err := storage.NewLocalService(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	clk := clock.Real()
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.MemberRepository, files, emailSvc, clk)
	leavingSvc := service.NewLeavingService(store.LeavingRequestRepository, store.MemberRepository,
		store.RoomRepository, store.PaymentRepository, emailSvc, clk)
	cleanupSvc := service.NewCleanupService(store.MemberRepository, store.PaymentRepository,
		files, clk, cfg.Billing.RetentionDays)

	verifier := security.NewTokenVerifier(cfg.JWT.Secret)
	router := api.NewRouter(
		verifier,
		api.NewPaymentHandler(paymentSvc, files, cfg.Storage.MaxFileSize),
		api.NewLeavingHandler(leavingSvc),
		api.NewAdminHandler(paymentSvc, leavingSvc, cleanupSvc),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
