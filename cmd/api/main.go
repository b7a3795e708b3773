package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/tour-backoffice/internal/api/http"
	"github.com/spec-kit/tour-backoffice/internal/api/http/handlers"
	"github.com/spec-kit/tour-backoffice/internal/auth"
	"github.com/spec-kit/tour-backoffice/internal/config"
	"github.com/spec-kit/tour-backoffice/internal/events"
	"github.com/spec-kit/tour-backoffice/internal/mail"
	"github.com/spec-kit/tour-backoffice/internal/observability"
	"github.com/spec-kit/tour-backoffice/internal/persistence"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/internal/service"
	"github.com/spec-kit/tour-backoffice/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	tourRepo := repository.NewTourRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	historyRepo := repository.NewRequestHistoryRepository(pool)
	commentRepo := repository.NewRequestCommentRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)

	dispatcher := events.NewAsyncDispatcher(logger, cfg.Notification.QueueSize, cfg.Notification.Workers)
	defer dispatcher.Close()

	var sender mail.Sender
	if cfg.Notification.EmailEnabled {
		sender = mail.NewSMTPSender(cfg.Notification.SMTPAddr, cfg.Notification.EmailFrom, cfg.Notification.SendTimeout())
	} else {
		sender = mail.NewLogSender(logger)
	}
	notificationService := service.NewNotificationService(sender, tourRepo, logger, metrics)
	notificationService.Register(dispatcher)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, clientRepo, tokens, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewAuthMiddleware(tokens, userRepo, employeeRepo, clientRepo)

	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo:  requestRepo,
		HistoryRepo:  historyRepo,
		TourRepo:     tourRepo,
		ClientRepo:   clientRepo,
		EmployeeRepo: employeeRepo,
		Dispatcher:   dispatcher,
	})
	tourService := service.NewTourService(tourRepo, flightRepo)
	flightService := service.NewFlightService(flightRepo)
	clientService := service.NewClientService(clientRepo)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo, cfg.Auth.BcryptCost)
	commentService := service.NewCommentService(commentRepo, requestRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, tourRepo)
	statisticsService := service.NewStatisticsService(requestRepo, tourRepo, redis.Client, cfg.Stats.CacheTTL(), logger)

	reminderWorker := worker.NewReminderWorker(requestRepo, employeeRepo, dispatcher, cfg.Notification.ReminderInterval(), logger)
	reminderWorker.Start()
	defer reminderWorker.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Requests:       handlers.NewRequestsHandler(requestService),
		StaffRequests:  handlers.NewStaffRequestsHandler(requestService, commentService),
		Tours:          handlers.NewToursHandler(tourService),
		Flights:        handlers.NewFlightsHandler(flightService),
		Clients:        handlers.NewClientsHandler(clientService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		Statistics:     handlers.NewStatisticsHandler(statisticsService),
		Favorites:      handlers.NewFavoritesHandler(favoriteService),
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
