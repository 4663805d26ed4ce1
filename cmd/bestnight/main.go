package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bestnight/bestnight/internal/config"
	"github.com/bestnight/bestnight/internal/db"
	"github.com/bestnight/bestnight/internal/db/memory"
	dbRedis "github.com/bestnight/bestnight/internal/db/redis"
	domcombo "github.com/bestnight/bestnight/internal/domain/combo"
	logpkg "github.com/bestnight/bestnight/internal/logger"
	"github.com/bestnight/bestnight/internal/metrics"
	favrepo "github.com/bestnight/bestnight/internal/repository/favorites"
	"github.com/bestnight/bestnight/internal/repository/placecache"
	chiTransport "github.com/bestnight/bestnight/internal/transport/chi"
	"github.com/bestnight/bestnight/internal/transport/places"
	cacheuc "github.com/bestnight/bestnight/internal/usecase/cache"
	combouc "github.com/bestnight/bestnight/internal/usecase/combo"
	favoritesuc "github.com/bestnight/bestnight/internal/usecase/favorites"
	healthuc "github.com/bestnight/bestnight/internal/usecase/health"
	"github.com/bestnight/bestnight/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting BestNight API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	store, err := newStore(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Cache store ready")

	// Register provider and cache metrics explicitly (no init())
	metrics.RegisterPlacesMetrics()

	// Provider chain: Places client -> result cache
	client := places.NewClient(&places.Config{
		APIKey:  cfg.Provider.APIKey,
		BaseURL: cfg.Provider.BaseURL,
		Timeout: time.Duration(cfg.Provider.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	provider := placecache.New(client, store,
		time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CacheTotal, logger)

	comboSvc := combouc.New(provider, combouc.Config{
		MinRating: cfg.Matching.MinRating,
		Match: domcombo.Options{
			MaxWalkKm: cfg.Matching.MaxWalkKm,
			TopN:      cfg.Matching.TopN,
		},
		DefaultRadiusMeters: cfg.Matching.DefaultRadiusM,
	}, metrics.CombosReturned, logger)
	cacheSvc := cacheuc.New(store, placecache.Prefixes(), cfg.Auth.AdminKeys, logger)
	favoritesSvc := favoritesuc.New(favrepo.New(store), cfg.Favorites.Limit)

	// Pass nil interface (not typed nil pointer!) when the provider probe is off.
	var placesChecker healthuc.PlacesChecker
	if cfg.Provider.HealthProbe {
		placesChecker = client
	}
	healthSvc := healthuc.New(store, placesChecker)

	server := chiTransport.NewServer(comboSvc, cacheSvc, favoritesSvc, healthSvc, chiTransport.RateLimit{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.WindowSec) * time.Second,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the cache store for the configured driver.
// Valkey speaks the Redis protocol and shares its client.
func newStore(c config.CacheConfig) (db.Store, error) {
	switch c.Driver {
	case config.DriverMemory:
		return memory.NewStore(
			memory.WithSweepInterval(time.Duration(c.SweepIntervalSec) * time.Second),
		), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     c.Addrs,
			Username:  c.Username,
			Password:  c.Password,
			DB:        c.DB,
			KeyPrefix: c.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", c.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", c.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"code":    chiTransport.CodeInternal,
						"error":   "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request. The query string is left out: it may carry an address.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("client_id", r.Header.Get(chiTransport.ClientIDHeader)),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
