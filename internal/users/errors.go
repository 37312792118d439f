package users

import (
	"errors"
	"fmt"
	"time"
)

// Client-facing messages. They are part of the HTTP contract.
const (
	MessageMissingNameOrEmail = "Missing name or email"
	MessageMissingName        = "Missing name"
	MessageKoreanName         = "Name must not include Korean characters"
	MessageInvalidEmail       = "Invalid email format"
	MessageUserNotFound       = "User not found"
	MessageUserAlreadyExists  = "User already exists"
)

// UserError represents errors related to user operations
type UserError struct {
	Type    string
	Name    string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for user %q: %s (caused by: %v)", e.Type, e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for user %q: %s", e.Type, e.Name, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeValidationFailed = "validation_failed"
	UserErrorTypeNotFound         = "not_found"
	UserErrorTypeAlreadyExists    = "already_exists"
	UserErrorTypeDeleteTooSoon    = "delete_too_soon"
)

// NewMissingFieldsError creates an error for absent required input
func NewMissingFieldsError(message string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		Message: message,
	}
}

// NewInvalidNameError creates an error for names containing Korean characters
func NewInvalidNameError(name string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		Name:    name,
		Message: MessageKoreanName,
	}
}

// NewInvalidEmailError creates an error for emails without '@'
func NewInvalidEmailError(name string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		Name:    name,
		Message: MessageInvalidEmail,
	}
}

// NewUserNotFoundError creates an error for when no record matches
func NewUserNotFoundError(name string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		Name:    name,
		Message: MessageUserNotFound,
	}
}

// NewUserAlreadyExistsError creates an error for a name that is already taken
func NewUserAlreadyExistsError(name string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeAlreadyExists,
		Name:    name,
		Message: MessageUserAlreadyExists,
		Cause:   cause,
	}
}

// NewDeleteTooSoonError creates an error for deletes inside the grace period
func NewDeleteTooSoonError(name string, grace time.Duration) *UserError {
	return &UserError{
		Type:    UserErrorTypeDeleteTooSoon,
		Name:    name,
		Message: fmt.Sprintf("User cannot be deleted within %s of creation", humanDuration(grace)),
	}
}

// ErrorType returns the UserError type in err's chain, or "" for backend failures.
func ErrorType(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Type
	}
	return ""
}

// IsNotFound reports whether err is a not_found UserError
func IsNotFound(err error) bool {
	return ErrorType(err) == UserErrorTypeNotFound
}

// IsAlreadyExists reports whether err is an already_exists UserError
func IsAlreadyExists(err error) bool {
	return ErrorType(err) == UserErrorTypeAlreadyExists
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Minute:
		return "1 minute"
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int64(d/time.Minute))
	case d == time.Second:
		return "1 second"
	case d%time.Second == 0:
		return fmt.Sprintf("%d seconds", int64(d/time.Second))
	default:
		return d.String()
	}
}
