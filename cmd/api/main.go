package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	env := config.GetEnvironment()
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Console: env.HumanLogs()})
	log.Logger = logger
	if env == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Redis backs rate limiting, token revocation and the short link cache;
	// the API runs without it
	var redisClient *redis.Client
	if database.RedisConfigured(cfg) {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, continuing without it")
			redisClient = nil
		}
	}

	ctx := context.Background()
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		return err
	}
	images := service.NewS3ImageStore(s3cfg)

	// Initialize services
	store := service.NewGormListStore(db)
	subscriptions := service.NewSubscriptionService(db)
	authService := service.NewAuthService(db, cfg.JWTSecret, redisClient)
	services := api.Services{
		Auth:          authService,
		Users:         service.NewUserService(db, images),
		Recipes:       service.NewRecipeService(db, images, service.NewAnnotator(store, subscriptions)),
		Lists:         service.NewListService(db, store),
		ShoppingList:  service.NewShoppingListService(db),
		ShortLinks:    service.NewShortLinkService(db, redisClient, cfg.ShortLinkBase()),
		Subscriptions: subscriptions,
		Ingredients:   service.NewIngredientService(db),
		Tags:          service.NewTagService(db),
		SiteHostname:  cfg.SiteHostname,
	}
	if redisClient != nil {
		services.CreationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		services.ModificationLimiter = middleware.NewRecipeModificationRateLimiter(redisClient)
	}

	handler := router.SetupRouter(logger, cfg.AllowedOrigins, db, services)
	srv := server.New(cfg.ServerHost+":"+cfg.ServerPort, handler)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("received signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info().Msg("server stopped")
	return nil
}
