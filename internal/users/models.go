package users

import (
	"time"
)

// User is a directory record. CreatedAt is milliseconds since the Unix epoch.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

// CreatedTime returns CreatedAt as a time.Time.
func (u *User) CreatedTime() time.Time {
	return time.UnixMilli(u.CreatedAt)
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,nohangul"`
	Email string `json:"email" binding:"required,hasat"`
}

// UserNameQuery carries the ?name= lookup key shared by get, update and delete
type UserNameQuery struct {
	Name string `form:"name" binding:"required"`
}

// UpdateEmailBody is the body of an email update
type UpdateEmailBody struct {
	Email string `json:"email" binding:"required,hasat"`
}

// UpdateEmailRequest represents the request to change a user's email
type UpdateEmailRequest struct {
	Name  string
	Email string
}
