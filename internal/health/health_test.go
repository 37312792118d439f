package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/userdir/userdir/internal/users"
)

type stubChecker struct {
	name     string
	critical bool
	err      error
}

func (s stubChecker) HealthCheck(ctx context.Context) error { return s.err }
func (s stubChecker) IsCritical() bool                      { return s.critical }
func (s stubChecker) Name() string                          { return s.name }

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubConfig struct{ err error }

func (c stubConfig) Validate() error { return c.err }

func TestStartupHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("AllHealthy", func(t *testing.T) {
		m := NewManager(zap.NewNop())
		m.AddChecker(NewStoreHealthChecker("memory", stubPinger{}))
		m.AddChecker(NewConfigHealthChecker(stubConfig{}))

		assert.NoError(t, m.StartupHealthCheck(ctx))
	})

	t.Run("NonCriticalFailureIsTolerated", func(t *testing.T) {
		m := NewManager(zap.NewNop())
		m.AddChecker(NewStoreHealthChecker("memory", stubPinger{}))
		m.AddChecker(stubChecker{name: "telemetry", err: errors.New("collector down")})

		assert.NoError(t, m.StartupHealthCheck(ctx))
	})

	t.Run("CriticalFailureFailsStartup", func(t *testing.T) {
		m := NewManager(zap.NewNop())
		m.AddChecker(NewStoreHealthChecker("postgres", stubPinger{err: errors.New("connection refused")}))

		err := m.StartupHealthCheck(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestRuntimeHealthCheck(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("no route to host")

	m := NewManager(zap.NewNop())
	m.AddChecker(NewStoreHealthChecker("neo4j", stubPinger{err: storeErr}))
	m.AddChecker(NewConfigHealthChecker(stubConfig{}))
	m.AddChecker(stubChecker{name: "telemetry", err: errors.New("collector down")})

	results := m.RuntimeHealthCheck(ctx)
	require.Len(t, results, 3)
	assert.ErrorIs(t, results["store"], storeErr)
	assert.NoError(t, results["configuration"])
	assert.False(t, m.Healthy(results))

	results["store"] = nil
	assert.True(t, m.Healthy(results), "non-critical failures do not make the service unhealthy")
}

func TestCheckersRejectNilDependencies(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, NewStoreHealthChecker("memory", nil).HealthCheck(ctx))
	assert.Error(t, NewConfigHealthChecker(nil).HealthCheck(ctx))
}

func TestStoreHealthCheckerAcceptsUserStores(t *testing.T) {
	var store users.Pinger = users.NewInMemoryStore()
	checker := NewStoreHealthChecker("memory", store)

	assert.NoError(t, checker.HealthCheck(context.Background()))
	assert.True(t, checker.IsCritical())
	assert.Equal(t, "store", checker.Name())
}
