package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ease-mdlwr/ease-mdlwr/internal/app"
	"github.com/ease-mdlwr/ease-mdlwr/internal/auth"
	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
	"github.com/ease-mdlwr/ease-mdlwr/internal/observability"
	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/cache"
	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/db"
	"github.com/ease-mdlwr/ease-mdlwr/internal/rbac"
	"github.com/ease-mdlwr/ease-mdlwr/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("connect mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongo disconnect", slog.Any("error", err))
		}
	}()

	database := client.Database(cfg.MongoDB)

	// The schema must be in place before any traffic is accepted.
	migrator := identity.NewMigrator(database, logger)
	if err := migrator.Migrate(ctx); err != nil {
		logger.Error("schema migration", slog.Any("error", err))
		os.Exit(1)
	}

	var tokenCache auth.TokenCache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, token cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		tokenCache = cache.NewTokenCache(redisClient, cfg.TokenCacheTTL)
	}

	store := identity.NewStore(database)
	tokenService := auth.NewTokenService(cfg.JWTSecretKey)
	authService := auth.NewService(store, tokenService, tokenCache, logger)
	metrics := observability.NewMetrics()

	authHandler := auth.NewHandler(logger, authService, metrics)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}
	usersHandler := users.NewHandler(logger, users.NewService(store))
	rbacHandler := rbac.NewHandler(logger, rbac.NewService(store))

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UsersHandler:   usersHandler,
		RBACHandler:    rbacHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
