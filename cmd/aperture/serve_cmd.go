package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aperture/internal/config"
	"aperture/internal/infra/cache"
	"aperture/internal/infra/db"
	httpinfra "aperture/internal/infra/http"
	"aperture/internal/infra/ratelimit"
	"aperture/internal/usecase"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var configPath string
	fs.StringVar(&configPath, "config", "", "config file path")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	deps := httpinfra.ServerDeps{
		Logger:       logger,
		FullVerifier: &usecase.FullVerifier{},
	}

	if cfg.PostgresDSN != "" {
		gdb, err := db.Open(cfg.PostgresDSN)
		if err != nil {
			logger.Error("open database", zap.Error(err))
			return 1
		}
		if err := db.Migrate(gdb); err != nil {
			logger.Error("migrate database", zap.Error(err))
			return 1
		}
		deps.Claims = db.NewClaimRepository(gdb)
		deps.Events = db.NewVerificationEventRepository(gdb)
	} else {
		logger.Warn("postgres_dsn not set, claim storage disabled")
	}

	cropVerifier := &usecase.CropVerifier{CacheTTL: cfg.CacheTTL}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("init redis cache", zap.Error(err))
			return 1
		}
		cropVerifier.Cache = redisCache
	} else {
		cropVerifier.Cache = cache.NewMemory(cache.MemoryConfig{})
	}
	deps.CropVerifier = cropVerifier

	if cfg.RateLimitRequests > 0 {
		limit := httpinfra.RateLimitConfig{
			Requests: cfg.RateLimitRequests,
			Window:   cfg.RateLimitWindow,
		}
		if cfg.RedisAddr != "" {
			limiter, err := ratelimit.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
			if err != nil {
				logger.Error("init redis rate limiter", zap.Error(err))
				return 1
			}
			limit.Limiter = limiter
		} else {
			limit.Limiter = ratelimit.NewMemory(ratelimit.MemoryConfig{})
		}
		deps.RateLimit = limit
	}

	srv := httpinfra.NewServer(deps)
	logger.Info("verification service listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(cfg.HTTPAddr); err != nil {
		logger.Error("server exited", zap.Error(err))
		return 1
	}
	return 0
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
