package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/persistence/memory"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/persistence/postgres"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/logging"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// store is everything the services need from a persistence driver.
type store interface {
	ports.Transactor
	ports.QuotationReader
	ports.HistoryReader
	ports.UserDirectory
	ports.CompanyDirectory
	ports.NotificationStore
	ports.HealthChecker
}

// loadConfig loads and validates configuration, failing fast.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	return logger
}

// openStore returns the configured driver and a function releasing it.
func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (store, func(), error) {
	if cfg.Driver != "postgres" {
		s := memory.New()
		if cfg.Seed {
			memory.Seed(s)
			logger.Info("memory store seeded",
				slog.Int("users", len(memory.DemoUsers)),
				slog.Int("companies", len(memory.DemoCompanies)),
			)
		}

		return s, func() {}, nil
	}

	pg, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.MigrateOnStart {
		if err := migrateUp(ctx, pg, logger); err != nil {
			pg.Close()
			return nil, nil, err
		}
	}

	return pg, pg.Close, nil
}

func openPostgres(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*postgres.Store, error) {
	pg, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.DSN,
		MaxConns:        cfg.MaxConns,
		MinConns:        cfg.MinConns,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		ConnectTimeout:  cfg.ConnectTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	return pg, nil
}

func migrateUp(ctx context.Context, pg *postgres.Store, logger *slog.Logger) error {
	migrator, err := postgres.NewMigrator(pg)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logger.Info("migrations applied")

	return nil
}
