package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/clock"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/config"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/jobs"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/logger"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/repository/postgres"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/scheduler"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/service"
	"github.com/dhanushns/MRMPG-BACKEND-sub002/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g. 'reconcile-overdue', 'all-nightly')")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MRM PG cronjob runner...", "log_level", cfg.Log.Level)

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

	jobRunner := jobs.NewJobRunner(store, &jobs.Services{
		Payment: paymentSvc,
		Leaving: leavingSvc,
		Cleanup: cleanupSvc,
		Email:   emailSvc,
	}, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reconcile-overdue":
		jobRunner.ReconcileOverduePayments()
	case "send-overdue-reminders":
		jobRunner.SendOverdueReminders()
	case "refresh-leaving-dues":
		jobRunner.RefreshLeavingDues()
	case "purge-inactive-members":
		jobRunner.PurgeInactiveMembers()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	case "all-weekly":
		jobRunner.RunAllWeeklyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reconcile-overdue\n")
		fmt.Printf("  - send-overdue-reminders\n")
		fmt.Printf("  - refresh-leaving-dues\n")
		fmt.Printf("  - purge-inactive-members\n")
		fmt.Printf("  - all-nightly\n")
		fmt.Printf("  - all-weekly\n")
		os.Exit(1)
	}
}
