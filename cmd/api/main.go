package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/secure-gateway/internal/api/http"
	"github.com/spec-kit/secure-gateway/internal/api/http/handlers"
	"github.com/spec-kit/secure-gateway/internal/auth"
	"github.com/spec-kit/secure-gateway/internal/config"
	"github.com/spec-kit/secure-gateway/internal/csrf"
	"github.com/spec-kit/secure-gateway/internal/events"
	"github.com/spec-kit/secure-gateway/internal/observability"
	"github.com/spec-kit/secure-gateway/internal/persistence"
	"github.com/spec-kit/secure-gateway/internal/ratelimit"
	"github.com/spec-kit/secure-gateway/internal/repository"
	"github.com/spec-kit/secure-gateway/internal/service"
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

	var credentials repository.CredentialRepository
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		credentials = repository.NewCredentialRepository(pool)
	} else {
		logger.Warn("using in-memory credential store")
		credentials = repository.NewMemoryRepository()
	}

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	events.SubscribeAuditLogger(dispatcher, logger)

	csrfStore := csrf.NewStore(cfg.Csrf.TTL())
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Window(), cfg.RateLimit.Max)
	loginLimiter := ratelimit.NewLimiter(cfg.RateLimit.Window(), cfg.RateLimit.LoginMax)

	go csrfStore.Run(ctx, cfg.Csrf.SweepInterval())
	go limiter.Run(ctx, cfg.RateLimit.SweepInterval())
	go loginLimiter.Run(ctx, cfg.RateLimit.SweepInterval())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Credentials: credentials,
		CsrfStore:   csrfStore,
		Dispatcher:  dispatcher,
	})
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.IsProduction()})
	httptransport.RegisterPipeline(app, httptransport.PipelineConfig{
		Logger:     logger,
		Metrics:    metrics,
		Dispatcher: dispatcher,
		Timeout:    cfg.App.RequestTimeout(),
		Headers:    httptransport.NewHeaderPolicy(cfg.IsProduction()),
		Cors:       httptransport.NewCorsPolicy(cfg.Cors.AllowedOrigins, cfg.IsProduction()),
		Limiter:    limiter,
		Csrf:       csrfStore,
		Auth:       authMiddleware,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg),
		Auth:         handlers.NewAuthHandler(authService),
		Accounts:     handlers.NewAccountsHandler(authService),
		LoginLimiter: loginLimiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
