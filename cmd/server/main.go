// Package main is the entrypoint for the MedicAssist API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medicassist/medicassist/internal/ai"
	"github.com/medicassist/medicassist/internal/analysis"
	"github.com/medicassist/medicassist/internal/api"
	"github.com/medicassist/medicassist/internal/api/handler"
	mw "github.com/medicassist/medicassist/internal/api/middleware"
	"github.com/medicassist/medicassist/internal/api/response"
	"github.com/medicassist/medicassist/internal/audio"
	"github.com/medicassist/medicassist/internal/cache"
	"github.com/medicassist/medicassist/internal/config"
	"github.com/medicassist/medicassist/internal/facility"
	"github.com/medicassist/medicassist/internal/notify"
	"github.com/medicassist/medicassist/internal/places"
	"github.com/medicassist/medicassist/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	audioCacheTTL   = 12 * time.Hour
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Open the patient record store
	recordStore := store.NewFileStore(cfg.Store.DataFile)
	slog.Info("patient store opened", "path", cfg.Store.DataFile)

	// 3. Create the cache (Redis when configured, in-process otherwise)
	var audioCache cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		audioCache = redisCache
	} else {
		audioCache = cache.NewMemoryCache()
		slog.Info("using in-process cache")
	}

	// 4. Create the inference provider
	provider, err := ai.NewProvider(cfg.AI)
	if err != nil {
		return fmt.Errorf("create AI provider: %w", err)
	}
	slog.Info("AI provider initialized", "provider", provider.Name())

	// 5. Build services
	placesClient := places.NewHTTPClient(cfg.Places.BaseURL, cfg.Places.APIKey, cfg.Places.Timeout)
	aggregator := facility.NewAggregator(placesClient, cfg.Places.RadiusMeters)
	analysisSvc := analysis.NewService(provider, recordStore, notify.NewLogNotifier(), cfg.AI.InferenceTimeout)
	audioBridge := audio.NewBridge(provider, audioCache, audioCacheTTL)

	// 6. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(audioCache, cfg.Server.RateLimitPerMin),

		HealthHandler: healthHandler(audioCache),
		Analyze:       handler.NewAnalyzeHandler(analysisSvc),
		TTS:           handler.NewTTSHandler(audioBridge),
		NearbyPlaces:  handler.NewNearbyPlacesHandler(aggregator),
		Patients:      handler.NewPatients(recordStore),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // AI calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks cache connectivity.
func healthHandler(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"cache": "ok",
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
