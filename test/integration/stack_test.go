//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients/acl"
	httpadapter "github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/handlers"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/notify"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/persistence/memory"
	"github.com/brchinacargo-glitch/BRCcSis/internal/app"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/metrics"
	"github.com/brchinacargo-glitch/BRCcSis/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Seeded roster ids, see memory.DemoUsers.
const (
	adminID       int64 = 1
	managerID     int64 = 2
	operatorID    int64 = 3
	operator2ID   int64 = 4
	consultantID  int64 = 5
	consultant2ID int64 = 6
	inactiveID    int64 = 7
	companyID     int64 = 10
)

// stack is the service wired the way serve wires it, minus the listener.
type stack struct {
	handler http.Handler
	store   *memory.Store
	redis   *miniredis.Miniredis
	client  *redis.Client
	prefix  string
	metrics *prometheus.Registry
}

// stackOptions tweaks newStack.
type stackOptions struct {
	// registryURL switches company lookups to the external registry.
	registryURL string
	timeout     time.Duration
}

func newStack(opts stackOptions) (*stack, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.New()
	memory.Seed(store)

	mr, err := miniredis.Run()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	publisher := notify.NewRedisPublisher(client, config.DefaultRedisChannelPrefix)

	registry := ports.NewHealthRegistry()
	for _, hc := range []ports.HealthChecker{store, publisher} {
		if err := registry.Register(hc); err != nil {
			mr.Close()
			return nil, err
		}
	}

	var companies ports.CompanyDirectory = store
	if opts.registryURL != "" {
		httpClient, err := clients.New(&clients.Config{
			BaseURL:     opts.registryURL,
			ServiceName: "empresas",
			Timeout:     2 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     2,
				InitialInterval: 5 * time.Millisecond,
				MaxInterval:     20 * time.Millisecond,
				Multiplier:      2.0,
			},
			Circuit: config.CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       100 * time.Millisecond,
				HalfOpenLimit: 1,
			},
			Logger: logger,
		})
		if err != nil {
			mr.Close()
			return nil, err
		}

		companyClient := acl.NewCompanyClient(acl.CompanyClientConfig{Client: httpClient, Logger: logger})
		if err := registry.Register(companyClient); err != nil {
			mr.Close()
			return nil, err
		}
		companies = companyClient
	}

	reg := prometheus.NewRegistry()

	svc := app.NewQuotationService(app.QuotationServiceConfig{
		Transactor: store,
		Quotations: store,
		History:    store,
		Users:      store,
		Companies:  companies,
		Dispatcher: notify.NewDispatcher(notify.DispatcherConfig{
			Store:     store,
			Publisher: publisher,
			Logger:    logger,
		}),
		Metrics: metrics.NewRecorder(reg),
		Logger:  logger,
	})
	inbox := app.NewNotificationService(app.NotificationServiceConfig{Store: store, Logger: logger})

	server := httpadapter.New(&config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            8080,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		MaxRequestSize:  config.DefaultMaxRequestSize,
	}, logger)

	healthHandler := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "integration", "")).
		WithGatherer(reg)

	routerCfg := httpadapter.NewDefaultRouterConfig(logger,
		&config.AppConfig{Name: "brccsis", Version: "test", Environment: "test"},
		&config.AuthConfig{ActorHeader: "X-User-ID"},
		healthHandler,
	)
	routerCfg.QuotationHandler = handlers.NewQuotationHandler(svc)
	routerCfg.NotificationHandler = handlers.NewNotificationHandler(inbox, config.DefaultNotificationListLimit)
	if opts.timeout > 0 {
		routerCfg.Timeout = opts.timeout
	}
	httpadapter.SetupRouter(server.Engine(), routerCfg)

	return &stack{
		handler: server.Engine(),
		store:   store,
		redis:   mr,
		client:  client,
		prefix:  config.DefaultRedisChannelPrefix,
		metrics: reg,
	}, nil
}

// Close releases the embedded redis.
func (s *stack) Close() {
	_ = s.client.Close()
	s.redis.Close()
}
