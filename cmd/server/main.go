package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/memozise/memozise/internal/api"
	"github.com/memozise/memozise/internal/config"
	"github.com/memozise/memozise/internal/db"
	"github.com/memozise/memozise/internal/jobs"
	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/overlay"
	"github.com/memozise/memozise/internal/repository/sqlite"
	"github.com/memozise/memozise/internal/services"
	"github.com/memozise/memozise/internal/session"
	"github.com/memozise/memozise/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Memozise Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("save_worker_count=%d", cfg.SaveWorkerCount)
	log.Debug("save_queue_size=%d", cfg.SaveQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories and stores
	deckRepo := sqlite.NewDeckRepository(database.DB)
	kvRepo := sqlite.NewKVRepository(database.DB)
	pendingStore := overlay.NewStore(kvRepo)

	// Background save pool
	savePool := worker.NewPool(cfg.SaveWorkerCount, cfg.SaveQueueSize)
	saveQueue := jobs.NewWorkerQueue(savePool)

	// Services
	sessions := session.NewManager(deckRepo, pendingStore, time.Now)
	deckService := services.NewDeckService(deckRepo, time.Now)
	reviewService := services.NewReviewService(sessions, saveQueue)

	srv := &api.Server{
		DeckService:    deckService,
		ReviewService:  reviewService,
		AdvanceDelayMs: cfg.AdvanceDelayMs,
	}

	ctx, cancel := context.WithCancel(context.Background())
	savePool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pools")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Flush any remaining queued saves before exit
	log.Debug("stopping save pool")
	savePool.Stop()

	log.Info("===========================================")
	log.Info("Memozise Server Stopped")
	log.Info("===========================================")
}
