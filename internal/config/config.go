package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Store backends understood by the server.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendNeo4j    = "neo4j"
)

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	cfg := defaultConfig
	_loaded = &cfg

	configFile := os.Getenv("USERDIR_CONFIG_FILE")
	if configFile == "" {
		configFile = "userdir.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	// Environment variables have the highest priority
	if err := ApplyEnvOverrides(); err != nil {
		log.Printf("Failed to apply environment overrides: %v", err)
	}
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}

	_loaded = cfg
	return nil
}

// Parse merges YAML values over the defaults without touching the loaded config.
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnvOverrides overwrites loaded values with any USERDIR_* variables that are set.
func ApplyEnvOverrides() error {
	if _loaded == nil {
		return nil
	}

	overridden := *_loaded
	if err := env.Parse(&overridden); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := overridden.Validate(); err != nil {
		return err
	}

	_loaded = &overridden
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Common.Store.Backend {
	case BackendMemory, BackendPostgres, BackendSQLite:
	case BackendNeo4j:
		if c.Common.Neo4j.URI == "" {
			return fmt.Errorf("neo4j.uri is required when store.backend is %q", BackendNeo4j)
		}
	default:
		return fmt.Errorf("unsupported store backend: %q", c.Common.Store.Backend)
	}

	if c.Common.Users.DeleteGracePeriod < 0 {
		return fmt.Errorf("users.delete_grace_period cannot be negative")
	}
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Store: storeConfig{
			Backend: BackendMemory,
		},
		Postgres: postgresConfig{
			User:               "postgres",
			Password:           "postgres",
			Host:               "localhost",
			Port:               5432,
			Database:           "userdir",
			MaxOpenConnections: 10,
		},
		SQLite: sqliteConfig{
			Path: "userdir.db",
		},
		Neo4j: neo4jConfig{
			Database: "neo4j",
		},
		Users: usersConfig{
			DeleteGracePeriod: time.Minute,
		},
		Telemetry: telemetryConfig{
			ServiceName: "userdir",
		},
	},
}

type Common struct {
	Log       logConfig       `yaml:"log"`
	Http      httpConfig      `yaml:"http"`
	Store     storeConfig     `yaml:"store"`
	Postgres  postgresConfig  `yaml:"postgres"`
	SQLite    sqliteConfig    `yaml:"sqlite"`
	Neo4j     neo4jConfig     `yaml:"neo4j"`
	Users     usersConfig     `yaml:"users"`
	Telemetry telemetryConfig `yaml:"telemetry"`
}

type logConfig struct {
	Level  string `yaml:"level" env:"USERDIR_LOG_LEVEL"`
	Format string `yaml:"format" env:"USERDIR_LOG_FORMAT"`
}

type httpConfig struct {
	Host         string        `yaml:"host" env:"USERDIR_HTTP_HOST"`
	Port         int           `yaml:"port" env:"USERDIR_HTTP_PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"USERDIR_HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"USERDIR_HTTP_WRITE_TIMEOUT"`
}

func (c httpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type storeConfig struct {
	Backend string `yaml:"backend" env:"USERDIR_STORE_BACKEND"`
}

type postgresConfig struct {
	User               string `yaml:"user" env:"USERDIR_DB_USER"`
	Password           string `yaml:"password" env:"USERDIR_DB_PASSWORD"`
	Host               string `yaml:"host" env:"USERDIR_DB_HOST"`
	Port               int    `yaml:"port" env:"USERDIR_DB_PORT"`
	Database           string `yaml:"database" env:"USERDIR_DB_NAME"`
	MaxOpenConnections int    `yaml:"max_open_connections" env:"USERDIR_DB_MAX_OPEN_CONNECTIONS"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type sqliteConfig struct {
	Path string `yaml:"path" env:"USERDIR_SQLITE_PATH"`
}

type neo4jConfig struct {
	URI      string `yaml:"uri" env:"USERDIR_NEO4J_URI"`
	Username string `yaml:"username" env:"USERDIR_NEO4J_USERNAME"`
	Password string `yaml:"password" env:"USERDIR_NEO4J_PASSWORD"`
	Database string `yaml:"database" env:"USERDIR_NEO4J_DATABASE"`
}

type usersConfig struct {
	// Deletion is refused until a record is at least this old.
	DeleteGracePeriod time.Duration `yaml:"delete_grace_period" env:"USERDIR_DELETE_GRACE_PERIOD"`
}

type telemetryConfig struct {
	// OTLP/HTTP endpoint URL; tracing stays disabled when empty.
	Endpoint    string `yaml:"endpoint" env:"USERDIR_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"USERDIR_OTEL_SERVICE_NAME"`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Store() storeConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Store
}

func Postgres() postgresConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Postgres
}

func SQLite() sqliteConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.SQLite
}

func Neo4j() neo4jConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Neo4j
}

func Users() usersConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Users
}

func Telemetry() telemetryConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Telemetry
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}
