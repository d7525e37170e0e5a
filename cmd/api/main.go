package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"helperhub/internal/adapter/api"
	"helperhub/internal/adapter/api/handler"
	apimiddleware "helperhub/internal/adapter/api/middleware"
	"helperhub/internal/adapter/api/router"
	"helperhub/internal/adapter/repository"
	"helperhub/internal/infrastructure/firebase"
	"helperhub/internal/infrastructure/mq"
	"helperhub/internal/infrastructure/ratelimit"
	"helperhub/internal/infrastructure/websocket"
	"helperhub/internal/usecase"
	"helperhub/pkg/config"
	"helperhub/pkg/logger"
)

type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repository.Repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageFirestore:
		return repository.NewFirestoreRepositories(ctx, cfg.FirebaseProject, cfg.ServiceAccountPath)
	case config.StoragePostgres:
		return repository.NewPostgresRepositories(ctx, cfg.DatabaseURI)
	default:
		return repository.NewMemoryRepositories(), nil
	}
}

func openPublisher(cfg *config.Config) eventPublisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set, booking events will not be published")
		return mq.NopPublisher{}
	}

	publisher, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Error("Failed to connect to broker, booking events disabled: %v", err)
		return mq.NopPublisher{}
	}
	return publisher
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg); err != nil {
		logger.Error("Server stopped with error: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Server stopped")
	logger.Sync()
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer repos.Close()
	logger.Info("Using %s storage", cfg.StorageDriver)

	publisher := openPublisher(cfg)
	defer publisher.Close()

	chatLimiter := ratelimit.NewRateLimiter(ratelimit.Limits{PerSecond: cfg.ChatRatePerSecond, Burst: cfg.ChatBurst})
	chatLimiter.StartCleanupRoutine(ctx, 10*time.Minute)
	httpLimiter := ratelimit.NewRateLimiter(ratelimit.Limits{PerSecond: cfg.HTTPRatePerSecond, Burst: cfg.HTTPBurst})
	httpLimiter.StartCleanupRoutine(ctx, 10*time.Minute)

	wsManager := websocket.NewManager(websocket.NewPresence(), websocket.NewRooms())

	bookingUseCase := usecase.NewBookingUseCase(repos.Bookings, wsManager, publisher)
	chatUseCase := usecase.NewChatUseCase(repos.Messages, repos.Bookings, wsManager, chatLimiter)
	ratingUseCase := usecase.NewRatingUseCase(repos.Ratings, repos.Bookings, repos.Users, repos.Helpers)
	helperUseCase := usecase.NewHelperUseCase(repos.Helpers, repos.Bookings)
	userUseCase := usecase.NewUserUseCase(repos.Users)
	adminUseCase := usecase.NewAdminUseCase(repos.Users, repos.Helpers, repos.Bookings)
	overdueMonitor := usecase.NewOverdueMonitor(repos.Bookings, wsManager, publisher, cfg.OverdueScanInterval)

	wsManager.SetChatService(chatUseCase)

	authMiddleware := apimiddleware.NewAuthMiddleware(cfg.JWTSecret, cfg.TokenTTL())
	if cfg.FirebaseAuth {
		authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseProject, cfg.ServiceAccountPath)
		if err != nil {
			return err
		}
		authMiddleware.WithVerifier(authClient)
		logger.Info("Accepting Firebase ID tokens for project %s", cfg.FirebaseProject)
	}

	handler.Setup(bookingUseCase, chatUseCase, ratingUseCase, helperUseCase, adminUseCase)
	handler.SetupHealthHandler(cfg.StorageDriver, wsManager.Presence().Len)
	handler.SetupWebSocketHandler(wsManager, cfg.CORSOrigin)
	handler.SetupDevHandler(authMiddleware, userUseCase, helperUseCase)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))
	e.Use(apimiddleware.RateLimit(httpLimiter))

	e.Validator = api.NewValidator()

	router.Setup(e, authMiddleware)
	router.SetupDevRouter(e, cfg.Environment)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wsManager.Run(gctx)
	})

	g.Go(func() error {
		return overdueMonitor.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
