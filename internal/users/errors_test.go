package users

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewUserNotFoundError("alice"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, UserErrorTypeNotFound, ErrorType(err))
	assert.Equal(t, "", ErrorType(errors.New("connection refused")))
	assert.Equal(t, "", ErrorType(nil))
}

func TestAlreadyExistsUnwrapsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewUserAlreadyExistsError("alice", cause)
	assert.True(t, IsAlreadyExists(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by: duplicate key")
}

func TestDeleteTooSoonMessage(t *testing.T) {
	assert.Equal(t, "User cannot be deleted within 1 minute of creation", NewDeleteTooSoonError("a", time.Minute).Message)
	assert.Equal(t, "User cannot be deleted within 5 minutes of creation", NewDeleteTooSoonError("a", 5*time.Minute).Message)
	assert.Equal(t, "User cannot be deleted within 30 seconds of creation", NewDeleteTooSoonError("a", 30*time.Second).Message)
	assert.Equal(t, "User cannot be deleted within 1.5s of creation", NewDeleteTooSoonError("a", 1500*time.Millisecond).Message)
}
