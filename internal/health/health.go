package health

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/userdir/userdir/internal/users"
)

// HealthChecker is one dependency the service reports on
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	IsCritical() bool
	Name() string
}

// Manager runs registered health checkers
type Manager struct {
	checkers []HealthChecker
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewManager creates a new health manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		checkers: make([]HealthChecker, 0),
		logger:   logger,
	}
}

// AddChecker adds a health checker to the manager
func (m *Manager) AddChecker(checker HealthChecker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// StartupHealthCheck fails when any critical checker fails; non-critical failures are logged
func (m *Manager) StartupHealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var criticalFailures []error

	for _, checker := range m.checkers {
		err := checker.HealthCheck(ctx)
		switch {
		case err == nil:
			m.logger.Info("Health check passed",
				zap.String("service", checker.Name()),
				zap.Bool("critical", checker.IsCritical()))
		case checker.IsCritical():
			criticalFailures = append(criticalFailures, fmt.Errorf("%s: %w", checker.Name(), err))
			m.logger.Error("Critical health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		default:
			m.logger.Warn("Non-critical health check failed",
				zap.String("service", checker.Name()),
				zap.Error(err))
		}
	}

	if len(criticalFailures) > 0 {
		return fmt.Errorf("critical services failed health check: %v", criticalFailures)
	}

	m.logger.Info("All critical services healthy", zap.Int("total_checks", len(m.checkers)))
	return nil
}

// RuntimeHealthCheck returns each checker's current result keyed by name
func (m *Manager) RuntimeHealthCheck(ctx context.Context) map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]error, len(m.checkers))
	for _, checker := range m.checkers {
		results[checker.Name()] = checker.HealthCheck(ctx)
	}
	return results
}

// Healthy reports whether every critical checker in results passed
func (m *Manager) Healthy(results map[string]error) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, checker := range m.checkers {
		if checker.IsCritical() && results[checker.Name()] != nil {
			return false
		}
	}
	return true
}

// StoreHealthChecker checks the user store backend
type StoreHealthChecker struct {
	backend string
	store   users.Pinger
}

// NewStoreHealthChecker creates a store health checker
func NewStoreHealthChecker(backend string, store users.Pinger) *StoreHealthChecker {
	return &StoreHealthChecker{backend: backend, store: store}
}

func (s *StoreHealthChecker) HealthCheck(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("%s store is nil", s.backend)
	}
	return s.store.Ping(ctx)
}

func (s *StoreHealthChecker) IsCritical() bool {
	return true
}

func (s *StoreHealthChecker) Name() string {
	return "store"
}

// Validator is implemented by configuration that can check itself
type Validator interface {
	Validate() error
}

// ConfigHealthChecker checks configuration validity
type ConfigHealthChecker struct {
	config Validator
}

// NewConfigHealthChecker creates a config health checker
func NewConfigHealthChecker(config Validator) *ConfigHealthChecker {
	return &ConfigHealthChecker{config: config}
}

func (c *ConfigHealthChecker) HealthCheck(ctx context.Context) error {
	if c.config == nil {
		return fmt.Errorf("configuration is nil")
	}
	return c.config.Validate()
}

func (c *ConfigHealthChecker) IsCritical() bool {
	return true
}

func (c *ConfigHealthChecker) Name() string {
	return "configuration"
}
