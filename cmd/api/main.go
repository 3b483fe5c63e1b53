package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/asset-service/internal/api/http"
	"github.com/spec-kit/asset-service/internal/api/http/handlers"
	"github.com/spec-kit/asset-service/internal/auth"
	"github.com/spec-kit/asset-service/internal/config"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/integrations"
	"github.com/spec-kit/asset-service/internal/observability"
	"github.com/spec-kit/asset-service/internal/persistence"
	"github.com/spec-kit/asset-service/internal/repository"
	"github.com/spec-kit/asset-service/internal/service"
	"github.com/spec-kit/asset-service/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	counterRepo := repository.NewCounterRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	auditRepo := repository.NewAuditTrailRepository(pool)

	auditRecorder := service.NewAuditRecorder(auditRepo, logger)
	workspace := integrations.NewWorkspaceClient(cfg.Workspace, logger)
	mailer := service.NewSMTPMailer(cfg.SMTP, logger)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo, auditRecorder, cfg.Auth.BcryptCost)

	assetService := service.NewAssetService(service.AssetDependencies{
		AssetRepo:   assetRepo,
		CounterRepo: counterRepo,
		UserRepo:    userRepo,
		Audit:       auditRecorder,
		Dispatcher:  dispatcher,
		Workspace:   workspace,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		CounterRepo: counterRepo,
		Audit:       auditRecorder,
		Dispatcher:  dispatcher,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriptionRepo: subscriptionRepo,
		UserRepo:         userRepo,
		Audit:            auditRecorder,
		Dispatcher:       dispatcher,
		ExpiringSoonDays: cfg.Sweeps.ExpiringSoonDays,
	})
	sweepService := service.NewSweepService(service.SweepDependencies{
		TicketRepo:       ticketRepo,
		SubscriptionRepo: subscriptionRepo,
		TicketService:    ticketService,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Workspace:        workspace,
		Logger:           logger,
		Config:           cfg.Sweeps,
	})
	reportService := service.NewReportService(assetRepo, ticketRepo, subscriptionRepo, redis,
		cfg.Redis.DashboardTTL(), cfg.Sweeps.ExpiringSoonDays, logger)

	notificationService := service.NewNotificationService(dispatcher, userRepo, mailer, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Assets:         handlers.NewAssetsHandler(assetService, auditRepo),
		Tickets:        handlers.NewTicketsHandler(ticketService, auditRepo),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService, auditRepo),
		Jobs:           handlers.NewJobsHandler(sweepService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
		CronToken:      cfg.Auth.CronToken,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
