/*
Package main is the entry point for the MapChat server.

It is responsible for loading configuration, initializing the global logging system,
wiring the presence registry and chat Hub, optionally connecting voice clip storage,
setting up the HTTP server, and gracefully handling operating system interrupt
signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mapchat/internal/app/chat"
	"mapchat/internal/app/presence"
	"mapchat/internal/app/storage"
	"mapchat/internal/configs"
	"mapchat/internal/handler"
	"mapchat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Float64("proximity_range_m", cfg.ProximityRangeMeters).
		Bool("voice_storage", cfg.StorageEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Voice clip storage is optional; without it only small inline clips are relayed.
	var store storage.StorageService
	var janitor *storage.Janitor

	if cfg.StorageEnabled() {
		store, err = storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize voice clip storage")
		}

		janitor = storage.NewJanitor(store, cfg.VoiceRetention)
		go janitor.Run()
	}

	// Initialize the presence registry and the Hub event loop
	registry := presence.NewRegistry()
	hub := chat.NewHub(cfg.ProximityRangeMeters, registry, store, janitor)
	go hub.Run()

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Hub:            hub,
		Config:         cfg,
		StorageService: store,
		Janitor:        janitor,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("MapChat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	if janitor != nil {
		janitor.Shutdown()
	}

	logx.Info("Server gracefully stopped.")
}
