package service

import (
	"context"
	"fmt"

	"github.com/inkwellhq/inkwell/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile reads and partial profile updates.
type UserService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// GetProfile returns the user with the given id.
func (s *UserService) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ProfileChanges describes the caller-supplied profile fields. Nil
// fields are not touched. Password carries plaintext and is hashed
// here before it reaches the repository.
type ProfileChanges struct {
	Username       *string
	Email          *string
	Bio            *string
	Password       *string
	ProfilePicture *string
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, changes ProfileChanges) (*domain.User, error) {
	if changes.Username != nil && *changes.Username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
	}
	if changes.Email != nil && *changes.Email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrInvalidInput)
	}
	if changes.Password != nil && *changes.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrInvalidInput)
	}

	update := domain.UserUpdate{
		Username:       changes.Username,
		Email:          changes.Email,
		Bio:            changes.Bio,
		ProfilePicture: changes.ProfilePicture,
	}

	if changes.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*changes.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	user, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	return user, nil
}
