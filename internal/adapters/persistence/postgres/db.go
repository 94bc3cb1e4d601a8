// Package postgres implements the persistence ports on PostgreSQL through pgx.
//
// Quotations are locked with SELECT ... FOR UPDATE inside a unit of work, so two
// callers acting on the same quotation serialize on the row and the second one
// observes the committed state of the first.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

// Config holds pool settings. Zero values fall back to the defaults below.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// Pool defaults.
const (
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultMaxConnIdleTime = 5 * time.Minute
	DefaultConnectTimeout  = 5 * time.Second
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements every persistence port on a connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var (
	_ ports.Transactor        = (*Store)(nil)
	_ ports.QuotationReader   = (*Store)(nil)
	_ ports.HistoryReader     = (*Store)(nil)
	_ ports.UserDirectory     = (*Store)(nil)
	_ ports.CompanyDirectory  = (*Store)(nil)
	_ ports.NotificationStore = (*Store)(nil)
	_ ports.HealthChecker     = (*Store)(nil)
)

// Open creates the pool and verifies connectivity.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}

	poolCfg.MaxConns = orDefault(cfg.MaxConns, DefaultMaxConns)
	poolCfg.MinConns = orDefault(cfg.MinConns, DefaultMinConns)
	poolCfg.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, DefaultMaxConnIdleTime)
	poolCfg.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, DefaultConnectTimeout)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("database pool ready",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.String("database", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
	)

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases every pooled connection.
func (s *Store) Close() {
	s.pool.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "postgres"
}

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}

	return v
}
