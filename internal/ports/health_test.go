package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthyCheck(name string) CheckFunc {
	return CheckFunc{Label: name, Fn: func(context.Context) error { return nil }}
}

func failingCheck(name, msg string) CheckFunc {
	return CheckFunc{Label: name, Fn: func(context.Context) error { return errors.New(msg) }}
}

// blockingCheck waits for its context, like a ping against an unreachable host.
func blockingCheck(name string) CheckFunc {
	return CheckFunc{Label: name, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
}

func TestHealthRegistry_Register(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(healthyCheck("postgres")))
	require.NoError(t, registry.Register(healthyCheck("redis")))

	err := registry.Register(failingCheck("postgres", "second pool"))
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "postgres")
	assert.Len(t, registry.checkers, 2)
}

func TestHealthRegistry_CheckAll(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthChecker
		wantStatus HealthStatus
		wantFailed map[string]string
	}{
		{
			name:       "empty registry is healthy",
			wantStatus: HealthStatusHealthy,
		},
		{
			name:       "store broker and registry up",
			checks:     []HealthChecker{healthyCheck("postgres"), healthyCheck("redis"), healthyCheck("empresas")},
			wantStatus: HealthStatusHealthy,
		},
		{
			name:       "broker down",
			checks:     []HealthChecker{healthyCheck("postgres"), failingCheck("redis", "dial tcp: connection refused")},
			wantStatus: HealthStatusUnhealthy,
			wantFailed: map[string]string{"redis": "dial tcp: connection refused"},
		},
		{
			name:       "every dependency down",
			checks:     []HealthChecker{failingCheck("memory", "closed"), failingCheck("empresas", "circuit breaker is open")},
			wantStatus: HealthStatusUnhealthy,
			wantFailed: map[string]string{"memory": "closed", "empresas": "circuit breaker is open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checks {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.False(t, result.Timestamp.IsZero())
			require.Len(t, result.Checks, len(tt.checks))
			for _, c := range tt.checks {
				res := result.Checks[c.Name()]
				if msg, bad := tt.wantFailed[c.Name()]; bad {
					assert.Equal(t, HealthStatusUnhealthy, res.Status)
					assert.Equal(t, msg, res.Message)
					continue
				}
				assert.Equal(t, HealthStatusHealthy, res.Status)
				assert.Empty(t, res.Message)
			}
		})
	}
}

func TestHealthRegistry_Deadlines(t *testing.T) {
	t.Run("caller cancellation", func(t *testing.T) {
		registry := NewHealthRegistry()
		require.NoError(t, registry.Register(blockingCheck("postgres")))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := registry.CheckAll(ctx)
		assert.Equal(t, HealthStatusUnhealthy, result.Status)
		assert.Contains(t, result.Checks["postgres"].Message, "context canceled")
	})

	t.Run("per check timeout", func(t *testing.T) {
		registry := NewHealthRegistry().WithCheckTimeout(10 * time.Millisecond)
		require.NoError(t, registry.Register(blockingCheck("postgres")))
		require.NoError(t, registry.Register(healthyCheck("redis")))

		start := time.Now()
		result := registry.CheckAll(context.Background())

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, HealthStatusUnhealthy, result.Checks["postgres"].Status)
		assert.Contains(t, result.Checks["postgres"].Message, "deadline exceeded")
		assert.Equal(t, HealthStatusHealthy, result.Checks["redis"].Status)
	})
}
