package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"staffmanager/internal/amqp"
	"staffmanager/internal/config"
	"staffmanager/internal/report"
	"staffmanager/internal/report/drive"
	"staffmanager/internal/report/htmlrender"
	"staffmanager/internal/services"
	"staffmanager/internal/storage"
	"staffmanager/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting invoice-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	renderer, err := htmlrender.New(cfg.ReportTempDir)
	if err != nil {
		logger.Error("Failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	var uploader report.Uploader
	if cfg.InvoiceBucket != "" {
		driveUploader, err := drive.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Drive uploader", "error", err)
			os.Exit(1)
		}
		uploader = driveUploader
		logger.Info("Drive uploader initialized", "bucket", cfg.InvoiceBucket)
	} else {
		uploader = &report.DirUploader{Root: cfg.ReportTempDir}
		logger.Info("Drive upload disabled, storing documents locally", "dir", cfg.ReportTempDir)
	}

	invoiceSvc := services.NewInvoiceService(
		repo, repo, repo.Societies(), repo,
		renderer, uploader, &report.TempDirCleaner{Dir: cfg.ReportTempDir},
		cfg.InvoiceBucket, cfg.InvoiceParallel,
	)
	invoiceWorker := worker.NewInvoiceWorker(invoiceSvc, 5*time.Minute)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := amqpClient.ConsumeInvoiceRuns(ctx, invoiceWorker.HandleInvoiceRun); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Shutting down invoice-worker")

	// Give in-flight invoice runs a moment to finish before the
	// deferred AMQP and SQLite closes run.
	select {
	case <-time.After(5 * time.Second):
	case <-sigChan:
		logger.Warn("Forced shutdown")
	}
	logger.Info("Worker shutdown complete")
}
