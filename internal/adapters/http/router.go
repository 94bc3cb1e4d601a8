package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/handlers"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/middleware"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger     *slog.Logger
	AuthConfig *config.AuthConfig
	AppConfig  *config.AppConfig

	HealthHandler       *handlers.HealthHandler
	QuotationHandler    *handlers.QuotationHandler
	NotificationHandler *handlers.NotificationHandler

	// Timeout bounds each /api/v1 request. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry span and HTTP metrics
//  5. Logging (skips /-/ probes)
//
// /api/v1 additionally applies the request timeout and resolves the actor.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := "brccsis"
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}
	apiV1.Use(middleware.Actor(cfg.AuthConfig))

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuotationHandler != nil {
		cfg.QuotationHandler.RegisterQuotationRoutes(rg)
	}
	if cfg.NotificationHandler != nil {
		cfg.NotificationHandler.RegisterNotificationRoutes(rg)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		Timeout:       config.DefaultRequestTimeout,
	}
}
