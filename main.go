package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"explorer-be/internal/auth"
	"explorer-be/internal/cache"
	"explorer-be/internal/config"
	"explorer-be/internal/database"
	"explorer-be/internal/logging"
	"explorer-be/internal/repository"
	"explorer-be/internal/router"
	"explorer-be/internal/service"
	"explorer-be/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the selected store
	var (
		userRepo  repository.UserRepository
		placeRepo repository.PlaceRepository
	)
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			logging.Fatal().Err(err).Msg("failed to run migrations")
		}
		userRepo = repository.NewUserRepository(db)
		placeRepo = repository.NewPlaceRepository(db)
	default:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		db := client.Database(cfg.MongoDatabase)
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("failed to create mongo indexes")
		}
		userRepo = repository.NewMongoUserRepository(db)
		placeRepo = repository.NewMongoPlaceRepository(db)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("failed to connect to redis, continuing without cache")
		} else {
			logging.Info().Msg("connected to redis cache")
			cacheClient = redisCache
			defer redisCache.Close()
		}
	}
	placeRepo = repository.NewCachedPlaceRepository(placeRepo, cacheClient)

	imageHost, err := storage.NewS3ImageHost(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to configure image host")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, auth.DefaultTokenTTL)
	session := auth.NewSessionCookie(cfg.CookieName, cfg.CookiePassword, cfg.CookieSecure)

	engine, err := router.New(ctx, router.Deps{
		Config:       cfg,
		Tokens:       tokens,
		Session:      session,
		AuthService:  service.NewAuthService(userRepo, tokens),
		UserService:  service.NewUserService(userRepo, placeRepo),
		PlaceService: service.NewPlaceService(placeRepo, userRepo),
		MediaService: service.NewMediaService(placeRepo, imageHost, cfg.UploadDir),
		Users:        userRepo,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("driver", cfg.DatabaseDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
