package testutil

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/utils"
)

// CreateTestUser builds a user with a real password hash. Callers persist it
// themselves so they can tweak fields first.
func CreateTestUser(fullName, username, email, password string, role models.Role) (*models.User, error) {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// DefaultTestUser returns a regular active user.
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("Test User", "testuser", "test@example.com", "Test123456", models.RoleUser)
}

// SoftDeleteUser marks an already-built user as deleted, for fixtures that
// need a Deleted-state account.
func SoftDeleteUser(user *models.User) {
	now := time.Now()
	user.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	user.LastDeletedAt = &now
	user.IsActive = false
	user.RefreshToken = nil
}

// CreateTestTask builds a simple non-repeating task for the given owner.
func CreateTestTask(userID, title string) *models.Task {
	return &models.Task{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
	}
}
