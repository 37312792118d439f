package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore implements the UserStore interface with (:User) nodes
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates a new Neo4j store
func NewNeo4jStore(driver neo4j.DriverWithContext, database string) *Neo4jStore {
	return &Neo4jStore{
		driver:   driver,
		database: database,
	}
}

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   mode,
	})
}

// CreateUser creates a new user node
func (s *Neo4jStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	created := *user
	created.ID = uuid.New().String()

	query := `
		CREATE (u:User {id: $id, name: $name, email: $email, created_at: $created_at})
		RETURN u.id
	`

	params := map[string]any{
		"id":         created.ID,
		"name":       created.Name,
		"email":      created.Email,
		"created_at": created.CreatedAt,
	}

	result, err := session.Run(ctx, query, params)
	if err == nil {
		_, err = result.Consume(ctx)
	}
	if err != nil {
		if strings.Contains(err.Error(), "ConstraintValidationFailed") {
			return nil, NewUserAlreadyExistsError(user.Name, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// GetUserByName retrieves the user node with an exactly matching name
func (s *Neo4jStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {name: $name})
		RETURN u.id as id, u.name as name, u.email as email, u.created_at as created_at
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return nil, NewUserNotFoundError(name)
	}

	record := result.Record()
	user := &User{}
	user.ID, _ = record.Values[0].(string)
	user.Name, _ = record.Values[1].(string)
	user.Email, _ = record.Values[2].(string)
	user.CreatedAt, _ = record.Values[3].(int64)

	return user, nil
}

// UpdateUserEmail sets the email of the user node with the given ID
func (s *Neo4jStore) UpdateUserEmail(ctx context.Context, id, email string) error {
	query := `
		MATCH (u:User {id: $id})
		SET u.email = $email
		RETURN count(u) as matched
	`

	matched, err := s.writeCount(ctx, query, map[string]any{"id": id, "email": email})
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}
	if matched == 0 {
		return NewUserNotFoundError(id)
	}
	return nil
}

// DeleteUser permanently removes the user node with the given ID
func (s *Neo4jStore) DeleteUser(ctx context.Context, id string) error {
	query := `
		MATCH (u:User {id: $id})
		DETACH DELETE u
		RETURN count(*) as matched
	`

	matched, err := s.writeCount(ctx, query, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if matched == 0 {
		return NewUserNotFoundError(id)
	}
	return nil
}

// Ping checks Neo4j connectivity
func (s *Neo4jStore) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Neo4jStore) writeCount(ctx context.Context, query string, params map[string]any) (int64, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, err
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}

	count, _ := record.Values[0].(int64)
	return count, nil
}
