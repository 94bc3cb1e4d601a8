package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig mirrors defaults() for the memory driver.
func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "brccsis", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            DefaultServerPort,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  DefaultRequestTimeout,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     DefaultClientRetryMaxAttempts,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      DefaultClientRetryMultiplier,
				JitterFactor:    DefaultClientRetryJitterFactor,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   DefaultClientCircuitMaxFailures,
				Timeout:       30 * time.Second,
				HalfOpenLimit: DefaultClientCircuitHalfOpenLimit,
			},
			Transport: TransportConfig{
				MaxIdleConns:        DefaultTransportMaxIdleConns,
				MaxIdleConnsPerHost: DefaultTransportMaxIdleConnsPerHost,
				IdleConnTimeout:     DefaultTransportIdleConnTimeout,
			},
		},
		Auth:          AuthConfig{ActorHeader: "X-User-ID"},
		Database:      DatabaseConfig{Driver: "memory"},
		Notifications: NotificationsConfig{ListLimit: DefaultNotificationListLimit},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},

		// app
		{name: "missing name", mutate: func(c *Config) { c.App.Name = "" }, wantErr: "app.name is required"},
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging" }, wantErr: "app.environment must be one of"},
		{name: "prod environment", mutate: func(c *Config) { c.App.Environment = "prod" }},

		// server
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port must be at most 65535"},
		{name: "read timeout under a second", mutate: func(c *Config) { c.Server.ReadTimeout = 500 * time.Millisecond }, wantErr: "server.read_timeout must be at least 1s"},
		{name: "request timeout too short", mutate: func(c *Config) { c.Server.RequestTimeout = 10 * time.Millisecond }, wantErr: "server.request_timeout"},
		{name: "request timeout at the floor", mutate: func(c *Config) { c.Server.RequestTimeout = 100 * time.Millisecond }},

		// log
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log.level must be one of"},
		{name: "trace level", mutate: func(c *Config) { c.Log.Level = "trace" }},
		{name: "pretty format", mutate: func(c *Config) { c.Log.Format = "pretty" }},
		{name: "unknown format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{
			name:    "log file without path",
			mutate:  func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} },
			wantErr: "log.file.path is required when log.file.enabled is true (APP_LOG__FILE__PATH)",
		},
		{
			name:    "log file too large",
			mutate:  func(c *Config) { c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/brccsis.log", MaxSizeMB: 4096} },
			wantErr: "log.file.max_size must be at most 1024",
		},

		// telemetry
		{
			name:    "telemetry without endpoint",
			mutate:  func(c *Config) { c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "brccsis"} },
			wantErr: "telemetry.endpoint is required",
		},
		{
			name:    "sampling above one",
			mutate:  func(c *Config) { c.Telemetry.SamplingRate = 1.5 },
			wantErr: "telemetry.sampling_rate must be at most 1",
		},
		{
			name: "telemetry collector",
			mutate: func(c *Config) {
				c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "otel-collector:4317", ServiceName: "brccsis", SamplingRate: 0.2}
			},
		},

		// auth
		{name: "missing actor header", mutate: func(c *Config) { c.Auth.ActorHeader = "" }, wantErr: "auth.actor_header is required (APP_AUTH__ACTOR_HEADER)"},

		// client
		{name: "client timeout", mutate: func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, wantErr: "client.timeout"},
		{name: "too many attempts", mutate: func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, wantErr: "client.retry.max_attempts must be at most 10"},
		{name: "flat multiplier", mutate: func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, wantErr: "client.retry.multiplier must be at least 1.1"},
		{name: "jitter above one", mutate: func(c *Config) { c.Client.Retry.JitterFactor = 2 }, wantErr: "client.retry.jitter_factor"},
		{name: "no breaker failures", mutate: func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, wantErr: "client.circuit_breaker.max_failures is required"},
		{name: "no idle conns", mutate: func(c *Config) { c.Client.Transport.MaxIdleConns = 0 }, wantErr: "client.transport.max_idle_conns is required"},

		// company registry
		{
			name:    "registry without url",
			mutate:  func(c *Config) { c.Services.Companies = ServiceEndpointConfig{Enabled: true, Name: "empresas"} },
			wantErr: "services.companies.base_url is required when services.companies.enabled is true",
		},
		{
			name:    "registry with a bad url",
			mutate:  func(c *Config) { c.Services.Companies = ServiceEndpointConfig{Enabled: true, Name: "empresas", BaseURL: "not a url"} },
			wantErr: "must be a valid URL",
		},
		{
			name:   "disabled registry needs nothing",
			mutate: func(c *Config) { c.Services.Companies = ServiceEndpointConfig{Name: "empresas"} },
		},

		// database
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "database.dsn is required when database.driver is postgres (APP_DATABASE__DSN)"},
		{
			name: "postgres with dsn",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.DSN = "postgres://brccsis@localhost:5432/brccsis"
			},
		},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver must be one of: memory postgres"},
		{name: "negative min conns", mutate: func(c *Config) { c.Database.MinConns = -1 }, wantErr: "database.min_conns"},

		// redis and notifications
		{
			name:    "redis without addr",
			mutate:  func(c *Config) { c.Redis = RedisConfig{Enabled: true} },
			wantErr: "redis.addr is required",
		},
		{name: "redis db out of range", mutate: func(c *Config) { c.Redis.DB = 16 }, wantErr: "redis.db must be at most 15"},
		{name: "inbox limit too high", mutate: func(c *Config) { c.Notifications.ListLimit = 500 }, wantErr: "notifications.list_limit must be at most 200"},
		{name: "inbox limit missing", mutate: func(c *Config) { c.Notifications.ListLimit = 0 }, wantErr: "notifications.list_limit is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Server.Port = 0
	cfg.Database.Driver = "sqlite"

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "config validation failed:"))
	assert.Contains(t, msg, "app.name")
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "database.driver")
	assert.Equal(t, 3, strings.Count(msg, "\n  "))
}

func TestFormatFieldPath(t *testing.T) {
	tests := map[string]string{
		"Config.server.port":                 "server.port",
		"Config.services.companies.base_url": "services.companies.base_url",
		"Port":                               "port",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatFieldPath(in), in)
	}
}

func TestConditionText(t *testing.T) {
	assert.Equal(t, "database.driver is postgres", conditionText("database.dsn", "Driver postgres"))
	assert.Equal(t, "redis.enabled is true", conditionText("redis.addr", "Enabled true"))
	assert.Equal(t, "enabled is true", conditionText("addr", "Enabled true"))
}

func TestEnvVarFor(t *testing.T) {
	assert.Equal(t, "APP_DATABASE__MAX_CONNS", envVarFor("database.max_conns"))
	assert.Equal(t, "database.max_conns", envKey(envVarFor("database.max_conns")))
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Enabled": "enabled",
		"Driver":  "driver",
		"BaseURL": "base_url",
		"DSN":     "dsn",
	}

	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), in)
	}
}
