package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

const userColumns = "id, username, email, password_hash, profile_picture, bio, created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, profile_picture, bio, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.ProfilePicture, user.Bio, now, now,
	)
	if err != nil {
		if dup := duplicateFieldError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+where, arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.ProfilePicture, &user.Bio, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// Update applies a partial update. Nil fields keep their stored values.
func (r *UserRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	var sets []string
	var args []any

	appendSet := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	appendSet("username", update.Username)
	appendSet("email", update.Email)
	appendSet("bio", update.Bio)
	appendSet("password_hash", update.PasswordHash)
	appendSet("profile_picture", update.ProfilePicture)

	if len(sets) > 0 {
		sets = append(sets, "updated_at = ?")
		args = append(args, time.Now().UTC())
		args = append(args, id)

		result, err := r.db.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			if dup := duplicateFieldError(err); dup != nil {
				return nil, dup
			}
			return nil, fmt.Errorf("update user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if rows == 0 {
			return nil, domain.ErrNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// duplicateFieldError maps a SQLite unique constraint violation to the
// sentinel naming the colliding field, or nil for unrelated errors.
func duplicateFieldError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.username") {
		return domain.ErrDuplicateUsername
	}
	if strings.Contains(msg, "users.email") {
		return domain.ErrDuplicateEmail
	}
	return nil
}
