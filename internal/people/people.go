// Package people manages user accounts and student records, including the
// credential flow that issues session tokens.
package people

import (
	"errors"
	"time"
)

// User is a login account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TeacherID    *string   `json:"teacher_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Student is a pupil record linked 1:1 to a user account.
type Student struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	UserID       string  `json:"user_id"`
	ClassGroupID *string `json:"class_group_id,omitempty"`
}

// Sentinel errors for the credential flow.
var (
	ErrInvalid        = errors.New("invalid request")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrTokenRevoked   = errors.New("refresh token revoked or expired")
)
