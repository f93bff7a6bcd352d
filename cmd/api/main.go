package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/office-helpdesk/internal/api/http"
	"github.com/spec-kit/office-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	"github.com/spec-kit/office-helpdesk/internal/persistence"
	"github.com/spec-kit/office-helpdesk/internal/repository"
	"github.com/spec-kit/office-helpdesk/internal/service"
	"github.com/spec-kit/office-helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	storage := persistence.Open(ctx, *cfg, logger)
	defer storage.Close()

	clk := clock.Real()
	dispatcher := events.NewInMemoryDispatcher(logger)

	userService := service.NewUserService(service.UserDependencies{
		Clock:   clk,
		Logger:  logger,
		Metrics: metrics,
		Config:  cfg.Store,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		Repo:       repository.NewTicketSnapshotRepository(storage, cfg.Storage.TicketsKey, logger),
		Users:      userService,
		Dispatcher: dispatcher,
		Clock:      clk,
		Logger:     logger,
		Metrics:    metrics,
		Config:     cfg.Store,
	})

	permissions, err := service.NewPermissionTable()
	if err != nil {
		logger.Fatal("failed to load permission table", zap.Error(err))
	}
	credentials, err := auth.NewCredentialTable(auth.DemoCredentials, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash demo credentials", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	feed := service.NewNotificationFeed(clk)
	authService := service.NewAuthService(service.AuthDependencies{
		Users:       userService,
		Feed:        feed,
		Permissions: permissions,
		Sessions:    repository.NewSessionRepository(storage, cfg.Storage.SessionKey, logger),
		Credentials: credentials,
		Tokens:      tokens,
		Logger:      logger,
		Metrics:     metrics,
		Config:      cfg.Store,
	})

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Feed:       feed,
		Tickets:    ticketService,
		Users:      userService,
		Sinks:      []service.NotificationSink{authService},
		Logger:     logger,
		Config:     cfg.Notification,
	})
	statsService := service.NewStatsService(ticketService, userService)
	worker.StartNotificationWorker(dispatcher, notificationService, statsService)

	if err := ticketService.FetchTickets(ctx); err != nil {
		logger.Fatal("failed to load tickets", zap.Error(err))
	}
	if err := ticketService.FetchCategories(ctx); err != nil {
		logger.Fatal("failed to load categories", zap.Error(err))
	}
	if restored, err := authService.CheckAuth(ctx); err != nil {
		logger.Warn("session not restored", zap.Error(err))
	} else if restored {
		user, _ := authService.CurrentUser()
		logger.Info("session restored", zap.String("user_id", user.ID))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, storage),
		Auth:           handlers.NewAuthHandler(authService, permissions),
		Tickets:        handlers.NewTicketsHandler(ticketService, authService),
		Categories:     handlers.NewCategoriesHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService),
		Sessions:       authService,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
