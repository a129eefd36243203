package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/campushub/student-portal/internal/backend"
	"github.com/campushub/student-portal/internal/cache"
	"github.com/campushub/student-portal/internal/config"
	"github.com/campushub/student-portal/internal/events"
	"github.com/campushub/student-portal/internal/handlers"
	"github.com/campushub/student-portal/internal/notify"
	"github.com/campushub/student-portal/internal/portal"
	"github.com/campushub/student-portal/internal/utils"
	"github.com/campushub/student-portal/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheService := cache.Service(cache.NewMemoryCache())
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.LogError(err, "Redis unavailable, falling back to in-memory cache")
		} else {
			defer redisClient.Close()
			cacheService = cache.NewRedisCache(redisClient, logger)
		}
	}

	bus := events.NewBus(slogger, cfg.Events.SubmissionTopic)
	publisher, err := cfg.Events.CreatePublisher(slogger, bus)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		return
	}
	defer publisher.Close()

	validator := utils.NewValidator()
	notifier := notify.NewLogNotifier(logger)
	backendClient := backend.NewCachedClient(
		backend.NewClient(cfg.BackendBaseURL, cfg.BackendToken, nil, logger),
		cacheService, logger)

	portalService := portal.NewService(portal.Config{
		Backend:   backendClient,
		Cache:     cacheService,
		Notifier:  notifier,
		Publisher: publisher,
		Bus:       bus,
		Validator: validator,
		Logger:    logger,
	})

	go func() {
		if err := portalService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.LogError(err, "Submission event loop stopped")
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(portalService, validator, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("Student portal listening",
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL,
		"environment", cfg.Environment)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.LogError(err, "Server stopped")
	}
}
