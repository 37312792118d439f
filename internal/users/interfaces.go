package users

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	// CreateUser persists user and returns it with the store-assigned ID.
	CreateUser(ctx context.Context, user *User) (*User, error)
	// GetUserByName returns the record whose name matches exactly.
	GetUserByName(ctx context.Context, name string) (*User, error)
	UpdateUserEmail(ctx context.Context, id, email string) error
	DeleteUser(ctx context.Context, id string) error
}

// UserService defines the interface for user service operations
type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, name string) (*User, error)
	UpdateEmail(ctx context.Context, req *UpdateEmailRequest) error
	DeleteUser(ctx context.Context, name string) error
}

// Pinger is implemented by stores that can report backend reachability
type Pinger interface {
	Ping(ctx context.Context) error
}
