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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medtrack-backend/config"
	"medtrack-backend/internal/api"
	"medtrack-backend/internal/db"
	"medtrack-backend/internal/logger"
	"medtrack-backend/internal/metrics"
	"medtrack-backend/internal/monitor"
	"medtrack-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	// Setup logger
	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, "medtrackd")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zl.Info("configuration loaded", zap.String("path", configPath), zap.String("driver", cfg.Database.Driver))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	appStore, err := openStore(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize store", zap.Error(err))
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Seed {
		if err := seedStore(ctx, cfg, appStore, zl); err != nil {
			zl.Fatal("failed to seed store", zap.Error(err))
		}
	}

	// Run the alert monitor in the background
	monitorSvc := monitor.NewService(cfg, appStore, zl)
	go monitorSvc.Run(ctx)

	router := api.NewRouter(appStore, cfg, zl)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		zl.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	zl.Info("shutdown signal received, stopping services")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Fatal("HTTP server Shutdown", zap.Error(err))
	}

	zl.Info("server gracefully stopped")
}

func openStore(cfg *config.Config, zl *zap.Logger) (store.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		zl.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}
	gormDB, err := db.Open(&cfg.Database, zl)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(gormDB), nil
}

func seedStore(ctx context.Context, cfg *config.Config, s store.Store, zl *zap.Logger) error {
	seed, err := store.DefaultSeed()
	if cfg.SeedFile != "" {
		var raw []byte
		raw, err = os.ReadFile(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		seed, err = store.DecodeSeed(raw)
	}
	if err != nil {
		return err
	}

	added, err := store.Seed(ctx, s, seed)
	if err != nil {
		return err
	}
	zl.Info("store seeded", zap.Int("added", added))
	return nil
}
