// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"snaptrack_backend/internal/feature/fooddetection/adapters/gemini"
	"snaptrack_backend/internal/feature/fooddetection/adapters/vision"
	"snaptrack_backend/internal/feature/fooddetection/usecase"
	"snaptrack_backend/internal/platform/cache"
	"snaptrack_backend/internal/platform/config"
	infrahttp "snaptrack_backend/internal/platform/http"
	"snaptrack_backend/internal/shared/ratelimiter"
)

// NewSignalSource creates the Vision-backed SignalSource, wrapped with the Redis cache when rdb is not nil.
// It returns (nil, nil, nil) when Vision is disabled by configuration.
func NewSignalSource(ctx context.Context, cfg config.Config, rdb *redisv9.Client) (usecase.SignalSource, func() error, error) {
	if !cfg.VisionEnabled {
		return nil, nil, nil
	}
	src, err := vision.NewVisionSignalSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	if rdb == nil {
		return src, src.Close, nil
	}
	return cache.NewCachingSignalSource(rdb, cfg.SignalCacheTTL, src, "signals"), src.Close, nil
}

// NewDescriberFactory creates the Gemini DescriberFactory when generative capability is configured.
// A nil factory with a nil error means the generative path is unavailable.
func NewDescriberFactory(ctx context.Context, cfg config.Config) (usecase.DescriberFactory, error) {
	if !cfg.GenerativeAvailable() {
		return nil, nil
	}
	f, err := gemini.NewGeminiDescriberFactory(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		VertexAI:   cfg.UseVertexAI,
		Project:    cfg.CloudProject,
		Location:   cfg.CloudLocation,
		HTTPClient: infrahttp.NewHTTPClient(cfg.GenerativeTimeout),
		Limiter:    ratelimiter.NewRateLimiter(cfg.GenerativeRPM, time.Minute),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return f, nil
}

// NewFoodDetectionOptions derives the immutable usecase options from cfg.
// generativeReady is false when the factory could not be created even though credentials exist.
func NewFoodDetectionOptions(cfg config.Config, generativeReady bool) usecase.Options {
	opts := usecase.Options{
		GenerativeAvailable: cfg.GenerativeAvailable() && generativeReady,
		Models:              cfg.GenerativeModels,
	}
	slog.Info("food detection configured",
		"generative_available", opts.GenerativeAvailable,
		"models", opts.Models,
		"rpm", cfg.GenerativeRPM,
		"vision_enabled", cfg.VisionEnabled,
	)
	return opts
}
