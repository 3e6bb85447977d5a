package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gfgm/gfgm/backend/config"
	"github.com/gfgm/gfgm/backend/internal/api"
	"github.com/gfgm/gfgm/backend/internal/cache"
	"github.com/gfgm/gfgm/backend/internal/database"
	"github.com/gfgm/gfgm/backend/internal/metrics"
	"github.com/gfgm/gfgm/backend/internal/middleware"
	"github.com/gfgm/gfgm/backend/internal/server"
	"github.com/gfgm/gfgm/backend/internal/service"
)

const (
	statsCacheTTL   = 30 * time.Second
	authRatePerSec  = 1
	authBurst       = 10
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	setupLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Redis is optional; without it rate limits are off and stats are not cached
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			logrus.WithError(err).Warn("Redis unavailable, continuing without rate limiting and stats cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize image storage")
	}

	m := metrics.New()
	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(db, authService, store, m)
	recipeService := service.NewRecipeService(db, store, m)

	var statsCache cache.Cache
	limits := api.RateLimiters{
		Auth: middleware.NewIPRateLimiter(ctx, rate.Limit(authRatePerSec), authBurst),
	}
	if redisClient != nil {
		statsCache = cache.NewRedisCache(redisClient, "gfgm")
		limits.RecipeCreation = middleware.NewRecipeCreationRateLimiter(redisClient)
		limits.RecipeModification = middleware.NewRecipeModificationRateLimiter(redisClient)
		limits.AIPrediction = middleware.NewAIPredictionRateLimiter(redisClient)
	}

	srv := server.New(cfg, api.Dependencies{
		Auth:    authService,
		Users:   userService,
		Recipes: recipeService,
		AI:      service.NewAIService(cfg.AIServiceURL, cfg.AITimeout, m),
		Stats:   service.NewStatsService(userService, recipeService, statsCache, statsCacheTTL),
		Images:  store,
		Limits:  limits,
	}, m)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logrus.WithError(err).Fatal("server error")
		}
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("received signal")
	}

	logrus.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server shutdown error")
	}
	logrus.Info("server stopped")
}

func setupLogging(cfg *config.Config) {
	if cfg.Environment == config.Production {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func newImageStore(ctx context.Context, cfg *config.Config) (service.ImageStore, error) {
	if cfg.StorageDriver == "s3" {
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logrus.WithField("bucket", s3Cfg.BucketName).Info("storing images in S3")
		return service.NewS3ImageStoreFromConfig(s3Cfg), nil
	}

	logrus.WithField("dir", cfg.UploadDir).Info("storing images on local disk")
	return service.NewLocalImageStore(cfg.UploadDir)
}
