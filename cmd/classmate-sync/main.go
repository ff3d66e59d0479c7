package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/auth"
	"github.com/vipul43/classmate-sync/internal/cache"
	"github.com/vipul43/classmate-sync/internal/config"
	"github.com/vipul43/classmate-sync/internal/database"
	"github.com/vipul43/classmate-sync/internal/googleclient"
	gatewayhttp "github.com/vipul43/classmate-sync/internal/http"
	"github.com/vipul43/classmate-sync/internal/http/handler"
	"github.com/vipul43/classmate-sync/internal/http/middleware"
	"github.com/vipul43/classmate-sync/internal/repository"
	"github.com/vipul43/classmate-sync/internal/server"
	"github.com/vipul43/classmate-sync/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Stop on SIGINT/SIGTERM; the server drains in-flight requests.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()
	logger.Info("database connected")

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	logger.Info("migrations completed")

	redisClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// Repositories
	credentialRepo := repository.NewCredentialRepository(db)
	selectionRepo := repository.NewCalendarSelectionRepository(db)
	stateStore := cache.NewRedisStateStore(redisClient)

	googleClient := googleclient.NewClient(googleclient.Options{
		ClientID:         cfg.GoogleClientID,
		ClientSecret:     cfg.GoogleClientSecret,
		RedirectURL:      cfg.GoogleRedirectURL,
		TokenURL:         cfg.GoogleTokenURL,
		CalendarEndpoint: cfg.GoogleCalendarEndpoint,
		TasksEndpoint:    cfg.GoogleTasksEndpoint,
		Logger:           logger.Named("google"),
	})

	// Services
	refresher := service.NewTokenRefresher(credentialRepo, googleClient, logger.Named("tokens"))
	syncService := service.NewSyncService(refresher, googleClient, selectionRepo, logger.Named("sync"))
	connectService := service.NewConnectService(googleClient, stateStore, credentialRepo, logger.Named("connect"))

	router := gatewayhttp.NewRouter(gatewayhttp.Handlers{
		Calendar: handler.NewCalendarHandler(syncService, logger),
		Tasks:    handler.NewTasksHandler(syncService, logger),
		Connect:  handler.NewConnectHandler(connectService, cfg.AppURL, logger),
	}, gatewayhttp.RouterOptions{
		Verifier:       auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience),
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimitPerMinute),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger.Named("http"),
	})

	srv, err := server.NewHTTPServer(router, cfg.ShutdownDuration(), cfg.TrustedProxies, logger)
	if err != nil {
		return err
	}
	if err := srv.Run(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("application stopped")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	var zcfg zap.Config
	if atomic.Level() == zap.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = atomic

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
