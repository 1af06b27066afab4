package service

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskhub-backend/internal/lifecycle"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
	"taskhub-backend/internal/repository"
	"taskhub-backend/pkg/logger"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role, allowed values are 'user' and 'admin'")
)

// UserService owns account management: listing, role changes and the
// soft-delete/restore lifecycle. Authorization is enforced by the route
// guards; the lifecycle preconditions are enforced here regardless of
// caller.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns a page of safe user projections plus pagination metadata.
func (s *UserService) List(q repository.ListQuery) ([]models.SafeUser, pagination.Meta, error) {
	users, total, err := s.users.List(q)
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, pagination.Meta{}, err
	}

	safe := make([]models.SafeUser, 0, len(users))
	for _, user := range users {
		safe = append(safe, user.Safe())
	}

	return safe, pagination.NewMeta(total, q.Params), nil
}

// GetByID returns the user regardless of lifecycle state, for admin views.
func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		logger.Log.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateRole changes a non-deleted user's role.
func (s *UserService) UpdateRole(id string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	ok, err := s.users.UpdateRole(id, role)
	if err != nil {
		logger.Log.Error("Failed to update role", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	logger.Log.Info("User role updated",
		zap.String("user_id", id),
		zap.String("role", string(role)),
	)
	return nil
}

// SoftDelete transitions the account to Deleted. The state machine check
// runs on the loaded record, then the repository applies the transition as a
// conditional update so a concurrent delete loses cleanly.
func (s *UserService) SoftDelete(id string) error {
	user, err := s.users.FindByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user for delete", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now()
	if err := lifecycle.SoftDelete(user, now); err != nil {
		return err
	}

	ok, err := s.users.SoftDelete(id, now)
	if err != nil {
		logger.Log.Error("Failed to soft-delete user", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		// Lost the race: someone deleted the account between load and update.
		return lifecycle.ErrAlreadyDeleted
	}

	logger.Log.Info("User soft-deleted", zap.String("user_id", id))
	return nil
}

// Restore transitions a deleted account back to Active, stamping the actor.
func (s *UserService) Restore(id, actorID string) error {
	user, err := s.users.FindByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user for restore", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := time.Now()
	if err := lifecycle.Restore(user, actorID, now); err != nil {
		return err
	}

	ok, err := s.users.Restore(id, actorID, now)
	if err != nil {
		logger.Log.Error("Failed to restore user", zap.String("user_id", id), zap.Error(err))
		return err
	}
	if !ok {
		return lifecycle.ErrNotDeleted
	}

	logger.Log.Info("User restored",
		zap.String("user_id", id),
		zap.String("restored_by", actorID),
	)
	return nil
}

// UpdateProfile updates the caller's own profile fields, re-checking
// identifier uniqueness against other active accounts.
func (s *UserService) UpdateProfile(id, fullName, username, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if fullName == "" || username == "" || email == "" {
		return nil, &ValidationError{Message: "all fields are required"}
	}
	if !emailRegex.MatchString(email) {
		return nil, &ValidationError{Message: "invalid email format"}
	}

	taken, err := s.users.ActiveExistsExcept(email, username, id)
	if err != nil {
		logger.Log.Error("Failed to check identifier uniqueness", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	ok, err := s.users.UpdateProfile(id, fullName, username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		logger.Log.Error("Failed to update profile", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	logger.Log.Info("Profile updated", zap.String("user_id", id))
	return user, nil
}
