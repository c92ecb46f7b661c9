package main

import (
	"context"
	"log"
	"time"

	"anoa.com/socialplatform/internal/bootstrap"
	"anoa.com/socialplatform/internal/config"
	"anoa.com/socialplatform/internal/server"
	"anoa.com/socialplatform/pkg/database"
	"anoa.com/socialplatform/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logging.L().Sync()
	logger := logging.WithComponent("main")

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DSN(), cfg.LogLevel)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}
	if cfg.IsDevelopment() {
		if err := bootstrap.SeedDemoUser(db); err != nil {
			logger.Fatal("failed to seed demo user", zap.Error(err))
		}
	}

	redisClient := connectRedis(cfg.RedisURL, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	srv := server.NewServer(cfg, db, redisClient)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

// connectRedis returns nil when redis is not configured or unreachable; the
// features that need it degrade instead of blocking startup.
func connectRedis(url string, logger *zap.Logger) *redis.Client {
	if url == "" {
		logger.Info("REDIS_URL not set, rate limiting and activity stream disabled")
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("invalid REDIS_URL, continuing without redis", zap.Error(err))
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without redis", zap.Error(err))
		_ = client.Close()
		return nil
	}

	logger.Info("connected to redis")
	return client
}
