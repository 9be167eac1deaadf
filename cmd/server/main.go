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

	"go.uber.org/zap"

	"github.com/giftregistry/backend/config"
	httpDelivery "github.com/giftregistry/backend/internal/delivery/http"
	"github.com/giftregistry/backend/internal/domain"
	"github.com/giftregistry/backend/internal/infrastructure/fetcher"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
	"github.com/giftregistry/backend/internal/infrastructure/storage/memory"
	"github.com/giftregistry/backend/internal/infrastructure/storage/mongodb"
	"github.com/giftregistry/backend/internal/infrastructure/storage/postgres"
	"github.com/giftregistry/backend/internal/usecase"
	"github.com/giftregistry/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid server configuration: %v", err)
	}

	zlog, err := logger.New("giftregistry", cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting Gift Registry Backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Type),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	m := metrics.New()

	store, closeStore, err := openStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open registry store", zap.Error(err))
	}
	defer closeStore()

	pageFetcher := fetcher.New(fetcher.Options{
		Timeout:           cfg.Scraper.Timeout,
		UserAgent:         cfg.Scraper.UserAgent,
		EnableDirect:      cfg.Scraper.EnableDirect,
		Proxies:           cfg.Scraper.Proxies,
		MaxBodyBytes:      cfg.Scraper.MaxBodyBytes,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
		Burst:             cfg.Scraper.Burst,
	}, zlog, m)
	zlog.Info("Transport strategies configured", zap.Strings("strategies", pageFetcher.Strategies()))

	// Initialize usecase layer
	scraper := usecase.NewScrapingService(pageFetcher, zlog, m)
	registry := usecase.NewRegistryService(store, zlog, m)

	handler := httpDelivery.NewHandler(scraper, registry, zlog)
	router := httpDelivery.SetupRouter(cfg, handler, zlog, m)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// openStore selects the registry repository configured by storage.type
func openStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (domain.RegistryRepository, func(), error) {
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{DSN: cfg.Storage.PostgresDSN}, zlog)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil

	case "mongo":
		store, err := mongodb.New(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, zlog)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Disconnect(); err != nil {
				zlog.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		}, nil

	default:
		zlog.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}
}
