//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brchinacargo-glitch/BRCcSis/internal/platform/config"
)

// repoRoot holds configs/ relative to this package.
const repoRoot = "../.."

// TestConfig_ShippedProfiles verifies every profile in configs/ loads and validates.
func TestConfig_ShippedProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		env     map[string]string
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name:    "local runs on the seeded memory store",
			profile: "local",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "memory", cfg.Database.Driver)
				assert.True(t, cfg.Database.Seed)
				assert.Equal(t, "pretty", cfg.Log.Format)
				assert.Equal(t, "X-User-ID", cfg.Auth.ActorHeader)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
			},
		},
		{
			name:    "prod needs a DSN from the environment",
			profile: "prod",
			env: map[string]string{
				"APP_DATABASE__DSN":       "postgres://brccsis:secret@db:5432/brccsis",
				"APP_TELEMETRY__ENDPOINT": "otel-collector:4317",
			},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "prod", cfg.App.Environment)
				assert.Equal(t, "postgres", cfg.Database.Driver)
				assert.Equal(t, int32(20), cfg.Database.MaxConns)
				assert.True(t, cfg.Database.MigrateOnStart)
				assert.True(t, cfg.Redis.Enabled)
				assert.Equal(t, config.DefaultRedisChannelPrefix, cfg.Redis.ChannelPrefix)
				assert.True(t, cfg.Log.File.Enabled)
				assert.InDelta(t, 0.2, cfg.Telemetry.SamplingRate, 1e-9)
			},
		},
		{
			name:    "unknown profile falls back to base",
			profile: "staging",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "memory", cfg.Database.Driver)
				assert.False(t, cfg.Database.Seed)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.LoadFrom(repoRoot, tt.profile)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			tt.check(t, cfg)
		})
	}
}

// TestConfig_ProdWithoutDSN verifies the postgres driver refuses to start without a DSN.
func TestConfig_ProdWithoutDSN(t *testing.T) {
	t.Setenv("APP_TELEMETRY__ENDPOINT", "otel-collector:4317")

	cfg, err := config.LoadFrom(repoRoot, "prod")
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}
