package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/handypro/internal/api/http"
	"github.com/spec-kit/handypro/internal/api/http/handlers"
	"github.com/spec-kit/handypro/internal/auth"
	"github.com/spec-kit/handypro/internal/config"
	"github.com/spec-kit/handypro/internal/events"
	"github.com/spec-kit/handypro/internal/observability"
	"github.com/spec-kit/handypro/internal/persistence"
	"github.com/spec-kit/handypro/internal/service"
	"github.com/spec-kit/handypro/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := persistence.OpenDatabase(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	store := db.Store

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	pool := worker.NewPool(cfg.Notification.Workers, cfg.Notification.QueueSize)
	defer pool.Stop()

	settingsService := service.NewSettingsService(store)
	if err := settingsService.EnsureDefaults(ctx); err != nil {
		logger.Fatal("failed to seed settings", zap.Error(err))
	}
	siteSettings, err := settingsService.Get(ctx)
	if err != nil {
		logger.Fatal("failed to load settings", zap.Error(err))
	}

	notifier := service.MultiNotifier{service.NewEmailNotifier(cfg.Notification, siteSettings.AppName, logger)}
	if redis != nil {
		notifier = append(notifier, service.NewStreamNotifier(redis, cfg.Notification.RedisStream))
	}
	service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Pool:       pool,
		Metrics:    metrics,
		Logger:     logger,
	}).RegisterHandlers()

	technicianService := service.NewTechnicianService(service.TechnicianDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	reviewService := service.NewReviewService(service.ReviewDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		Store:      store,
		MaxEditors: cfg.Team.MaxEditors,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	if _, err := teamService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	}
	listingService := service.NewListingService(store)
	statsService := service.NewStatsService(store)
	authService := service.NewAuthService(store, auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes))
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store.Users, store.Technicians)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis),
		Auth:           handlers.NewAuthHandler(authService, teamService),
		Technicians:    handlers.NewTechniciansHandler(technicianService, reviewService, listingService),
		Admin:          handlers.NewAdminHandler(technicianService, reviewService, statsService),
		Team:           handlers.NewTeamHandler(teamService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
