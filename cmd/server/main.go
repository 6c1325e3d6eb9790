package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"snaptrack_backend/internal/app/di"
	"snaptrack_backend/internal/app/router"
	foodhandler "snaptrack_backend/internal/feature/fooddetection/transport/handler"
	"snaptrack_backend/internal/feature/fooddetection/usecase"
	"snaptrack_backend/internal/platform/config"
	healthhandler "snaptrack_backend/internal/platform/http/handler"
	infraredis "snaptrack_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.RedisConfigured() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg); err != nil {
			log.Println("[WARN] Redis unavailable. Running without signal cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}()
		}
	}

	// Adapters
	signals, closeSignals, err := di.NewSignalSource(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("failed to create vision client: %v", err)
	}
	if closeSignals != nil {
		defer func() {
			if err := closeSignals(); err != nil {
				log.Println("[ERROR] Failed to close Vision client:", err)
			}
		}()
	}
	if signals == nil {
		log.Println("[WARN] VISION_ENABLED=false. Requests fail when the generative path is unavailable.")
	}

	describers, err := di.NewDescriberFactory(ctx, cfg)
	if err != nil {
		slog.Warn("generative capability disabled", "error", err)
	}

	// Usecase
	opts := di.NewFoodDetectionOptions(cfg, describers != nil)
	foodUC := usecase.NewFoodDetectionUsecase(signals, describers, opts)

	// Handler
	foodH := foodhandler.NewFoodDetectionHandler(foodUC, cfg.MaxImageSize)
	health := healthhandler.NewHealth(opts.GenerativeAvailable)

	// ルータ生成
	r := router.NewRouter(health, foodH, cfg.MaxImageSize, cfg.CORSAllowedOrigins)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
