package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore implements UserStore with in-memory storage
type InMemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*User
	byName map[string]string
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[string]*User),
		byName: make(map[string]string),
	}
}

// CreateUser stores a copy of user under a fresh ID
func (s *InMemoryStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[user.Name]; exists {
		return nil, NewUserAlreadyExistsError(user.Name, nil)
	}

	stored := *user
	stored.ID = uuid.New().String()
	s.byID[stored.ID] = &stored
	s.byName[stored.Name] = stored.ID

	created := stored
	return &created, nil
}

// GetUserByName retrieves a user by exact name
func (s *InMemoryStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byName[name]
	if !exists {
		return nil, NewUserNotFoundError(name)
	}

	user := *s.byID[id]
	return &user, nil
}

// UpdateUserEmail replaces the email of the user with the given ID
func (s *InMemoryStore) UpdateUserEmail(ctx context.Context, id, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return NewUserNotFoundError(id)
	}

	user.Email = email
	return nil
}

// DeleteUser removes the user with the given ID
func (s *InMemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return NewUserNotFoundError(id)
	}

	delete(s.byName, user.Name)
	delete(s.byID, id)
	return nil
}

// Ping always succeeds
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}
