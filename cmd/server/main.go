package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lysyi3m/wire-comb/app/api"
	"github.com/lysyi3m/wire-comb/app/cfg"
	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
	"github.com/lysyi3m/wire-comb/app/tasks"
)

func main() {
	// Load .env file if present; environment variables take precedence
	_ = godotenv.Load()

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	slog.Info("Starting Wire Comb server", "version", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	// Load wire source profile
	wireConfig, err := feed.LoadConfig(appCfg.WireProfile)
	if err != nil {
		slog.Error("Failed to load wire profile", "path", appCfg.WireProfile, "error", err)
		os.Exit(1)
	}
	slog.Info("Wire profile loaded", "wire", wireConfig.Name, "url", wireConfig.URL, "enabled", wireConfig.Settings.Enabled)

	// Initialize repositories
	recordRepo := database.NewRecordRepository(db)
	settingsRepo := database.NewSettingsRepository(db)

	// Initialize core components
	extractor := feed.NewExtractor(wireConfig.Source)
	reconciler := feed.NewReconciler()
	counter := feed.NewCounter()
	badge := notify.NewBadgePublisher()

	var notifier notify.Notifier
	if appCfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(appCfg.WebhookURL, nil)
		slog.Info("Webhook notifications enabled", "url", appCfg.WebhookURL)
	} else {
		notifier = notify.NewLogNotifier()
	}

	httpClient := &http.Client{}

	// Initialize and start scheduler
	scheduler := tasks.NewScheduler(wireConfig, recordRepo, settingsRepo, httpClient,
		extractor, reconciler, counter, notifier, badge)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	// Initialize HTTP server
	apiHandler := api.NewHandler(recordRepo, settingsRepo, counter, badge, scheduler, wireConfig)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	// Graceful shutdown
	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
