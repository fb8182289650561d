package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"staffmanager/internal/config"
	apphttp "staffmanager/internal/http"
	"staffmanager/internal/report"
	"staffmanager/internal/report/drive"
	"staffmanager/internal/report/htmlrender"
	"staffmanager/internal/services"
	"staffmanager/internal/storage"
	"staffmanager/internal/store"
	"staffmanager/internal/store/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		activities    store.ActivityStore
		collaborators store.CollaboratorStore
		missions      store.MissionStore
		societies     store.SocietyStore
		invoices      store.InvoiceStore
	)

	switch cfg.DataBackend {
	case "memory":
		mem := memory.New()
		activities, collaborators, missions, societies, invoices = mem, mem, mem, mem.Societies(), mem
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		activities, collaborators, missions, societies, invoices = repo, repo, repo, repo.Societies(), repo
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

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
		logger.Info("Initialized Drive uploader", "bucket", cfg.InvoiceBucket)
	} else {
		uploader = &report.DirUploader{Root: cfg.ReportTempDir}
		logger.Info("Drive upload disabled, storing documents locally", "dir", cfg.ReportTempDir)
	}

	cleaner := &report.TempDirCleaner{Dir: cfg.ReportTempDir}

	activitySvc := services.NewActivityService(activities, collaborators, missions)
	invoiceSvc := services.NewInvoiceService(
		activities, collaborators, societies, invoices,
		renderer, uploader, cleaner,
		cfg.InvoiceBucket, cfg.InvoiceParallel,
	)

	srv := apphttp.NewServer(":"+cfg.Port, activitySvc, invoiceSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting staffmanager server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
