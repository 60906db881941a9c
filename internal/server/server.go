package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"attar-store/internal/catalog"
	"attar-store/internal/config"
	"attar-store/internal/database"
	"attar-store/internal/domain"
	custommiddleware "attar-store/internal/middleware"
	"attar-store/internal/service"
	"attar-store/internal/storage"
	"attar-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sessions signs clients in and restores their sessions
type Sessions interface {
	transport.SessionManager
	Restore(ctx context.Context, clientID string) (domain.Session, error)
}

// Dependencies are the long-lived components the API is built from
type Dependencies struct {
	Catalog      service.CatalogService
	Carts        service.CartService
	Reviews      service.ReviewService
	Sessions     Sessions
	CatalogStore *catalog.Store
	Storage      storage.Store
	Redis        *redis.Client // optional; enables rate limiting
	DB           *sql.DB       // optional; reported by the health check
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

// NewRouter wires middleware and handlers into a chi router
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) http.Handler {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	router.Get("/health", healthHandler(deps))

	requireClient := custommiddleware.ClientIDMiddleware(logger)
	optionalClient := custommiddleware.OptionalClientIDMiddleware(logger)
	session := custommiddleware.SessionMiddleware(deps.Sessions, logger)
	requireSession := custommiddleware.RequireSession(logger)
	loginLimit := rateLimit(cfg, deps.Redis, "rl:login", logger)
	checkoutLimit := rateLimit(cfg, deps.Redis, "rl:checkout", logger)

	transport.NewCatalogHandler(deps.Catalog, logger).RegisterRoutes(router, optionalClient, requireClient)
	transport.NewCartHandler(deps.Carts, logger).RegisterRoutes(router, requireClient, checkoutLimit)
	transport.NewReviewHandler(deps.Reviews, logger).RegisterRoutes(router, requireClient, session, requireSession)
	transport.NewAuthHandler(deps.Sessions, logger).RegisterRoutes(router, requireClient, session, loginLimit)

	return router
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

func rateLimit(cfg *config.Config, client *redis.Client, prefix string, logger *zap.Logger) func(http.Handler) http.Handler {
	if !cfg.RateLimit.Enabled || client == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(client, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         prefix,
	}, logger)
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"status":  "ok",
			"catalog": deps.Catalog.State(),
		}

		if deps.DB != nil {
			db := database.Health(r.Context(), deps.DB)
			body["database"] = db
			if db["status"] != "up" {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(r.Context()).Err(); err != nil {
				body["redis"] = "down"
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			} else {
				body["redis"] = "up"
			}
		}

		custommiddleware.RespondWithJSON(w, status, body)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.CatalogStore != nil {
		s.deps.CatalogStore.Close()
	}

	if s.deps.Storage != nil {
		if err := s.deps.Storage.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
		}
	}

	// the redis and postgres storage backends close their own connections
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
