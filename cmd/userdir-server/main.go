package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/userdir/userdir/internal/api"
	"github.com/userdir/userdir/internal/config"
	"github.com/userdir/userdir/internal/database"
	"github.com/userdir/userdir/internal/graph"
	"github.com/userdir/userdir/internal/health"
	"github.com/userdir/userdir/internal/telemetry"
	"github.com/userdir/userdir/internal/users"
)

// AppState holds all application services
type AppState struct {
	Logger        *zap.Logger
	Config        *config.Config
	UserStore     users.UserStore
	UserService   users.UserService
	HealthManager *health.Manager
	Metrics       *telemetry.Metrics

	// closers release store resources on shutdown, in order
	closers []func(ctx context.Context) error
}

func main() {
	// Load configuration
	config.Load()

	// Initialize logger with config
	logger := initLogger()
	logger.Info("Configuration loaded",
		zap.String("store_backend", config.Store().Backend),
		zap.Duration("delete_grace_period", config.Users().DeleteGracePeriod))

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Setup(ctx, config.Telemetry().Endpoint, config.Telemetry().ServiceName)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	as, err := newAppState(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}
	as.closers = append(as.closers, shutdownTelemetry)

	if err := as.HealthManager.StartupHealthCheck(ctx); err != nil {
		logger.Fatal("Startup health check failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	handlers := api.NewHandlers(as.UserService, as.HealthManager, logger)
	router := api.NewRouter(handlers, as.Metrics, logger)

	httpConfig := config.Http()
	server := &http.Server{
		Addr:         httpConfig.Addr(),
		Handler:      router,
		ReadTimeout:  httpConfig.ReadTimeout,
		WriteTimeout: httpConfig.WriteTimeout,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(as, server, logger)

	logger.Info("Starting user directory server", zap.String("address", server.Addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState builds the configured store and the services on top of it
func newAppState(ctx context.Context, logger *zap.Logger) (*AppState, error) {
	as := &AppState{
		Logger:        logger,
		Config:        config.Get(),
		HealthManager: health.NewManager(logger),
		Metrics:       telemetry.DefaultMetrics(),
	}

	backend := config.Store().Backend
	store, err := as.newStore(ctx, backend)
	if err != nil {
		return nil, err
	}
	as.UserStore = store

	if pinger, ok := store.(users.Pinger); ok {
		as.HealthManager.AddChecker(health.NewStoreHealthChecker(backend, pinger))
	}
	as.HealthManager.AddChecker(health.NewConfigHealthChecker(as.Config))

	as.UserService = users.NewUserService(store,
		users.WithDeleteGracePeriod(config.Users().DeleteGracePeriod),
		users.WithLogger(logger),
		users.WithMetrics(as.Metrics),
	)

	return as, nil
}

func (as *AppState) newStore(ctx context.Context, backend string) (users.UserStore, error) {
	switch backend {
	case config.BackendMemory:
		as.Logger.Warn("Using in-memory store; records are lost on restart")
		return users.NewInMemoryStore(), nil

	case config.BackendPostgres:
		pgConfig := config.Postgres()
		as.Logger.Info("Database configuration",
			zap.String("host", pgConfig.Host),
			zap.Int("port", pgConfig.Port),
			zap.String("database", pgConfig.Database),
			zap.String("user", pgConfig.User))

		db, err := database.OpenPostgres(ctx, pgConfig.DSN(), pgConfig.MaxOpenConnections)
		if err != nil {
			return nil, err
		}
		as.closers = append(as.closers, func(context.Context) error { return db.Close() })

		if err := database.RunMigrations(ctx, db.DB, database.DialectPostgres); err != nil {
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return users.NewPostgresStore(db), nil

	case config.BackendSQLite:
		path := config.SQLite().Path
		as.Logger.Info("SQLite configuration", zap.String("path", path))

		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		as.closers = append(as.closers, func(context.Context) error { return db.Close() })

		if err := database.RunMigrations(ctx, db.DB, database.DialectSQLite); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		return users.NewSQLiteStore(db), nil

	case config.BackendNeo4j:
		neo4jConfig := config.Neo4j()
		client, err := graph.NewNeo4jClient(graph.Neo4jConfig{
			URI:      neo4jConfig.URI,
			Username: neo4jConfig.Username,
			Password: neo4jConfig.Password,
			Database: neo4jConfig.Database,
		}, as.Logger)
		if err != nil {
			return nil, err
		}
		as.closers = append(as.closers, client.Close)

		return users.NewNeo4jStore(client.GetDriver(), client.Database()), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %q", backend)
	}
}

// Close releases store and telemetry resources
func (as *AppState) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range as.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupSignalHandler(as *AppState, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := as.Close(ctx); err != nil {
			logger.Error("Error closing store", zap.Error(err))
		}

		_ = logger.Sync()
		done <- struct{}{}
	}()

	return done
}
