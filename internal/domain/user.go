package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
// PasswordHash is never serialized into a response payload.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	ProfilePicture string
	Bio            string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserUpdate describes a partial profile update. Nil fields are
// left unchanged; they are never treated as "clear this field".
type UserUpdate struct {
	Username       *string
	Email          *string
	Bio            *string
	PasswordHash   *string
	ProfilePicture *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, update UserUpdate) (*User, error)
}
