package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/finance-service/internal/api/http"
	"github.com/spec-kit/finance-service/internal/api/http/handlers"
	"github.com/spec-kit/finance-service/internal/auth"
	"github.com/spec-kit/finance-service/internal/config"
	"github.com/spec-kit/finance-service/internal/domain"
	"github.com/spec-kit/finance-service/internal/events"
	"github.com/spec-kit/finance-service/internal/mail"
	"github.com/spec-kit/finance-service/internal/observability"
	"github.com/spec-kit/finance-service/internal/persistence"
	"github.com/spec-kit/finance-service/internal/repository"
	"github.com/spec-kit/finance-service/internal/service"
	"github.com/spec-kit/finance-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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
		if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokenManager, err := auth.NewTokenManager(cfg.Auth, clock)
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, newMailSender(cfg.SMTP, logger), logger)

	authService := service.NewAuthService(userRepo, hasher, tokenManager, metrics, logger)
	registrationService := service.NewRegistrationService(*cfg, service.RegistrationDependencies{
		Users:      userRepo,
		Hasher:     hasher,
		Dispatcher: dispatcher,
		Clock:      clock,
	}, logger)
	ledgerService := service.NewLedgerService(service.LedgerDependencies{
		ProductRepo:  repository.NewProductRepository(pool),
		PurchaseRepo: repository.NewPurchaseRepository(pool),
		PaymentRepo:  repository.NewPaymentRepository(pool),
		Clock:        clock,
	}, logger)
	balanceService := service.NewBalanceService(repository.NewBalanceRepository(pool), userRepo)
	userService := service.NewUserService(userRepo, logger)

	code, err := registrationService.EnsureInvitation(ctx)
	if err != nil {
		logger.Fatal("failed to bootstrap invitation account", zap.Error(err))
	}
	if code != "" {
		logger.Warn("created invitation account", zap.String("username", domain.InvitationUsername), zap.String("code", code))
	}

	sweeper := worker.NewRegistrationSweeper(registrationService, worker.SweeperOptions{
		Interval: cfg.Registration.SweepInterval(),
		Clock:    clock,
		Lease:    redis,
		Metrics:  metrics,
	}, logger)
	workers := worker.NewGroup(logger, []worker.HandlerRegistrar{notificationService}, sweeper)
	workers.Start(ctx)
	defer workers.Stop()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	prom := fiberprometheus.New(cfg.App.Name)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Registration:   handlers.NewRegistrationHandler(registrationService),
		Products:       handlers.NewProductsHandler(ledgerService),
		Ledger:         handlers.NewLedgerHandler(authService, ledgerService, balanceService),
		Admin:          handlers.NewAdminHandler(userService, ledgerService, balanceService, registrationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager),
		LoginLimiter:   httptransport.LoginRateLimiter(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginBurst),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func newMailSender(cfg config.SMTPConfig, logger *zap.Logger) mail.Sender {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not set; registration mails are logged only")
		return mail.NewLogSender(logger)
	}
	return mail.NewSMTPSender(mail.NewSMTPTransport(cfg, logger), cfg.From, logger)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
