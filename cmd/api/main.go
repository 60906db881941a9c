package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"attar-store/internal/auth"
	"attar-store/internal/catalog"
	"attar-store/internal/checkout"
	"attar-store/internal/config"
	"attar-store/internal/database"
	"attar-store/internal/logger"
	"attar-store/internal/repository"
	"attar-store/internal/server"
	"attar-store/internal/service"
	"attar-store/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

// openStorage builds the client-local storage backend selected by STORAGE_DRIVER
func openStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, log *zap.Logger) (storage.Store, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn("Using in-memory storage; carts and reviews are lost on restart")
		return storage.NewMemoryStore(), nil, nil
	case "redis":
		return storage.NewRedisStore(redisClient, cfg.Storage.KeyPrefix), nil, nil
	case "postgres":
		db, err := database.Open(ctx, database.DSN(cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

		if err := database.RunMigrations(db, log); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed successfully")
		return storage.NewPostgresStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting storefront API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Storage.Driver == "redis" || cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
	}

	store, db, err := openStorage(ctx, cfg, redisClient, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}

	catalogStore := catalog.NewStore(
		catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, logger.Component(log, "catalog")),
		logger.Component(log, "catalog"),
		catalog.WithLoadTimeout(cfg.Catalog.Timeout),
	)

	images := repository.NewImageRepository(store, log)
	carts := repository.NewCartRepository(store, log)
	reviews := repository.NewReviewRepository(store, log)
	tokens := repository.NewSessionTokenRepository(store)

	authClient := auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.Timeout, logger.Component(log, "auth"))
	sessions := auth.NewManager(authClient, tokens, logger.Component(log, "auth"))

	catalogService := service.NewCatalogService(catalogStore, images, log)
	cartService := service.NewCartService(carts, catalogService, checkout.Options{
		StoreName:      cfg.Checkout.StoreName,
		CurrencySymbol: cfg.Checkout.CurrencySymbol,
		Number:         cfg.Checkout.WhatsAppNumber,
	}, logger.Component(log, "cart"))
	reviewService := service.NewReviewService(reviews, catalogStore, logger.Component(log, "review"))

	srv := server.NewServer(cfg, log, server.Dependencies{
		Catalog:      catalogService,
		Carts:        cartService,
		Reviews:      reviewService,
		Sessions:     sessions,
		CatalogStore: catalogStore,
		Storage:      store,
		Redis:        redisClient,
		DB:           db,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	// catalog routes answer 503 while loading; a failed first load shows the unavailable message
	go func() {
		if err := catalogStore.Load(ctx); err != nil {
			log.Warn("Initial catalog load failed", zap.Error(err))
		}
	}()

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
