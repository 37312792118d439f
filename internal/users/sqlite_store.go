package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const usersTable = "users"

var userColumns = []string{"id", "name", "email", "created_at"}

type userRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	CreatedAt int64  `db:"created_at"`
}

func (r userRow) toUser() *User {
	return &User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt}
}

// SQLiteStore implements the UserStore interface on sqlx with squirrel-built queries
type SQLiteStore struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// CreateUser inserts a new user row
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	created := *user
	created.ID = uuid.New().String()

	query, args, err := s.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(created.ID, created.Name, created.Email, created.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, NewUserAlreadyExistsError(user.Name, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// GetUserByName retrieves the user with an exactly matching name
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	query, args, err := s.builder.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(name)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return row.toUser(), nil
}

// UpdateUserEmail sets the email of the user with the given ID
func (s *SQLiteStore) UpdateUserEmail(ctx context.Context, id, email string) error {
	query, args, err := s.builder.Update(usersTable).
		Set("email", email).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}

	return expectOneRow(result, id)
}

// DeleteUser permanently removes the user with the given ID
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	query, args, err := s.builder.Delete(usersTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectOneRow(result, id)
}

// Ping checks database connectivity
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
