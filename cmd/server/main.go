package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filedrop/internal/server/api"
	"filedrop/internal/server/config"
	"filedrop/internal/server/drive"
	"filedrop/internal/server/mail"
	"filedrop/internal/server/service"
	"filedrop/internal/server/storage"
)

func main() {
	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded",
		"port", cfg.Port,
		"temp_dir", cfg.TempDir,
		"max_file_size", cfg.MaxFileSize,
		"admin_email_set", cfg.AdminEmail != "",
	)

	// Build the Drive client when credentials are present. Without them the
	// server still runs; the upload endpoint reports the missing configuration.
	ctx := context.Background()
	var store drive.Storage
	if cfg.DriveConfigured() {
		gd, err := drive.New(ctx, cfg)
		if err != nil {
			slog.Error("failed to create drive client", "error", err)
			os.Exit(1)
		}
		store = gd
		slog.Info("google drive client initialized", "root_folder", cfg.DriveRootFolderID)
	} else {
		slog.Warn("google drive not configured, uploads will be rejected")
	}

	// Initialize the temp-file spool
	spool := storage.NewSpool(cfg.TempDir)
	if err := spool.EnsureDir(); err != nil {
		slog.Error("failed to initialize temp storage", "error", err)
		os.Exit(1)
	}
	slog.Info("temp storage initialized", "path", cfg.TempDir)

	// Mail sender and upload service
	sender := mail.NewSMTPSender(cfg)
	svc := service.NewUploadService(store, sender, spool, cfg)

	// Start the orphaned-temp-file sweeper
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	cleanup := storage.NewCleanupService(spool, cfg.CleanupInterval, cfg.TempMaxAge)
	cleanup.Start(cleanupCtx)

	// Setup HTTP router
	handler := api.NewHandler(svc, spool, cfg)
	e := api.SetupRouter(handler)

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil {
			slog.Info("server stopped", "reason", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Stop the sweeper
	cleanupCancel()
	cleanup.Wait()

	slog.Info("server exited cleanly")
}
