package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jClient owns the driver and the schema of the user graph
type Neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// Neo4jConfig represents Neo4j connection configuration
type Neo4jConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
}

// schema statements run at connect time; all are idempotent
var schemaStatements = []string{
	"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
	"CREATE CONSTRAINT user_name IF NOT EXISTS FOR (u:User) REQUIRE u.name IS UNIQUE",
}

// NewNeo4jClient creates a new Neo4j client
func NewNeo4jClient(config Neo4jConfig, logger *zap.Logger) (*Neo4jClient, error) {
	if config.URI == "" {
		return nil, fmt.Errorf("Neo4j URI is required")
	}

	auth := neo4j.BasicAuth(config.Username, config.Password, "")
	driver, err := neo4j.NewDriverWithContext(config.URI, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	client := &Neo4jClient{
		driver:   driver,
		database: config.Database,
		logger:   logger,
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.driver.VerifyConnectivity(ctx)
	if err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	err = client.initializeSchema(ctx)
	if err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to initialize Neo4j schema: %w", err)
	}

	logger.Info("Neo4j client initialized successfully",
		zap.String("uri", config.URI),
		zap.String("database", config.Database))

	return client, nil
}

// Close closes the Neo4j driver
func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// initializeSchema creates the uniqueness constraints on :User
func (c *Neo4jClient) initializeSchema(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	for _, statement := range schemaStatements {
		result, err := session.Run(ctx, statement, nil)
		if err == nil {
			_, err = result.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to run %q: %w", statement, err)
		}
	}

	return nil
}

// HealthCheck performs a basic health check on the Neo4j connection
func (c *Neo4jClient) HealthCheck(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// GetDriver returns the underlying Neo4j driver
func (c *Neo4jClient) GetDriver() neo4j.DriverWithContext {
	return c.driver
}

// Database returns the configured database name
func (c *Neo4jClient) Database() string {
	return c.database
}
