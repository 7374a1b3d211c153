package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sigap-ti/sigap/internal/api/http"
	"github.com/sigap-ti/sigap/internal/api/http/handlers"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/config"
	"github.com/sigap-ti/sigap/internal/events"
	"github.com/sigap-ti/sigap/internal/observability"
	"github.com/sigap-ti/sigap/internal/persistence"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/service"
	"github.com/sigap-ti/sigap/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	diagnosisRepo := repository.NewDiagnosisRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	zoomTicketRepo := repository.NewZoomTicketRepository(pool)
	assetRepo := repository.NewAssetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(userRepo, tokenManager, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		DiagnosisRepo: diagnosisRepo,
		WorkOrderRepo: workOrderRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
	})
	workOrderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		WorkOrderRepo: workOrderRepo,
		TicketRepo:    ticketRepo,
		DiagnosisRepo: diagnosisRepo,
		Dispatcher:    dispatcher,
	})
	zoomService := service.NewZoomService(zoomTicketRepo, dispatcher)
	assetService := service.NewAssetService(assetRepo)
	visitorService := service.NewVisitorService(redis.Client)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		WorkOrders:     handlers.NewWorkOrdersHandler(workOrderService),
		ZoomTickets:    handlers.NewZoomTicketsHandler(zoomService),
		Users:          handlers.NewUsersHandler(userService),
		Assets:         handlers.NewAssetsHandler(assetService),
		Visitors:       handlers.NewVisitorsHandler(visitorService),
		AuthMiddleware: authMiddleware,
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
