package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	CreatedAt int64     `bun:"created_at,notnull" json:"createdAt"`
}

// PostgresStore implements the UserStore interface on bun
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// CreateUser inserts a new user row
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user.Name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	userSchema := UserToUserSchema(user)
	userSchema.ID = uuid.New()

	_, err := s.db.NewInsert().
		Model(&userSchema).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewUserAlreadyExistsError(user.Name, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// GetUserByName retrieves the user with an exactly matching name
func (s *PostgresStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	var userSchema UserSchema
	err := s.db.NewSelect().
		Model(&userSchema).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(name)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// UpdateUserEmail sets the email of the user with the given ID
func (s *PostgresStore) UpdateUserEmail(ctx context.Context, id, email string) error {
	result, err := s.db.NewUpdate().
		Model((*UserSchema)(nil)).
		Set("email = ?", email).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}

	return expectOneRow(result, id)
}

// DeleteUser permanently removes the user with the given ID
func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectOneRow(result, id)
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func expectOneRow(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return NewUserNotFoundError(id)
	}
	return nil
}

// Helper conversion functions
func UserSchemaToUser(schema UserSchema) *User {
	return &User{
		ID:        schema.ID.String(),
		Name:      schema.Name,
		Email:     schema.Email,
		CreatedAt: schema.CreatedAt,
	}
}

func UserToUserSchema(user *User) UserSchema {
	id, _ := uuid.Parse(user.ID)
	return UserSchema{
		ID:        id,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
