package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients/acl"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/handlers"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/notify"
	"github.com/brchinacargo-glitch/BRCcSis/internal/app"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/metrics"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/telemetry"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("database", cfg.Database.Driver),
	)

	// Telemetry is a noop when disabled, apart from trace propagation.
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	db, closeDB, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := healthRegistry.Register(db); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	publisher, closeRedis, err := newPublisher(cfg.Redis, healthRegistry)
	if err != nil {
		return err
	}
	defer closeRedis()

	companies, err := newCompanyDirectory(cfg, db, healthRegistry, logger)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Store:     db,
		Publisher: publisher,
		Logger:    logger,
	})

	quotationService := app.NewQuotationService(app.QuotationServiceConfig{
		Transactor: db,
		Quotations: db,
		History:    db,
		Users:      db,
		Companies:  companies,
		Dispatcher: dispatcher,
		Metrics:    recorder,
		Logger:     logger,
	})
	notificationService := app.NewNotificationService(app.NotificationServiceConfig{
		Store:  db,
		Logger: logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)

	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, healthHandler)
	routerCfg.QuotationHandler = handlers.NewQuotationHandler(quotationService)
	routerCfg.NotificationHandler = handlers.NewNotificationHandler(notificationService, cfg.Notifications.ListLimit)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newPublisher returns the realtime fan-out, or nil when Redis is disabled.
func newPublisher(cfg config.RedisConfig, registry ports.HealthRegistry) (ports.NotificationPublisher, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	publisher := notify.NewRedisPublisher(client, cfg.ChannelPrefix)

	if err := registry.Register(publisher); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("registering redis health check: %w", err)
	}

	return publisher, func() { _ = client.Close() }, nil
}

// newCompanyDirectory prefers the external registry and falls back to the store.
func newCompanyDirectory(
	cfg *config.Config,
	fallback ports.CompanyDirectory,
	registry ports.HealthRegistry,
	logger *slog.Logger,
) (ports.CompanyDirectory, error) {
	svc := cfg.Services.Companies
	if !svc.Enabled {
		return fallback, nil
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     svc.BaseURL,
		ServiceName: svc.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating company registry client: %w", err)
	}

	companyClient := acl.NewCompanyClient(acl.CompanyClientConfig{
		Client:     httpClient,
		Logger:     logger,
		HealthPath: svc.HealthPath,
	})
	if err := registry.Register(companyClient); err != nil {
		return nil, fmt.Errorf("registering company registry health check: %w", err)
	}

	return companyClient, nil
}

// waitForShutdown blocks until a shutdown signal is received or the server fails,
// then drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
