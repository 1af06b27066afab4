package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/logger"
)

var (
	ErrUserExists = errors.New("user with given email or username already exists")

	// ErrInvalidCredentials covers unknown identifier, wrong password,
	// soft-deleted and inactive accounts alike. Collapsing them prevents
	// account enumeration through the login endpoint.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken covers every refresh failure: absent user,
	// expired or malformed token, and replay of a superseded token.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidationError marks input problems the caller should see verbatim as a
// 400 response, as opposed to internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type AuthService struct {
	users  *repository.UserRepository
	tokens *utils.TokenManager
}

func NewAuthService(users *repository.UserRepository, tokens *utils.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a new account with the default role. It does not log the
// user in; no tokens are issued here.
func (s *AuthService) Register(fullName, username, email, password string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)

	if err := validateRegisterInput(fullName, username, email, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	// Conflict check only considers active, non-deleted accounts.
	exists, err := s.users.ActiveExists(email, username)
	if err != nil {
		logger.Log.Error("Failed to check user existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if exists {
		logger.Log.Warn("Registration rejected: identifier in use",
			zap.String("username", username),
			zap.String("email", email),
		)
		return nil, ErrUserExists
	}

	hashStart := time.Now()
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		logger.Log.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", username),
		zap.Duration("hash_duration", time.Since(hashStart)),
	)

	return user, nil
}

// Login resolves the identifier (email or username), verifies the password
// and account state, issues a fresh token pair and persists the refresh
// token, superseding any previously issued one.
func (s *AuthService) Login(identifier, password string) (*models.User, string, string, error) {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		logger.Log.Error("Failed to look up user", zap.Error(err))
		return nil, "", "", err
	}
	if user == nil {
		return nil, "", "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: wrong password", zap.String("user_id", user.ID))
		return nil, "", "", ErrInvalidCredentials
	}

	// Deleted and inactive accounts fail the same way as a wrong password.
	if user.Deleted() || !user.IsActive {
		logger.Log.Warn("Login failed: account not active", zap.String("user_id", user.ID))
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		logger.Log.Error("Failed to generate token pair",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", "", err
	}

	if err := s.users.SetRefreshToken(user.ID, &refreshToken); err != nil {
		logger.Log.Error("Failed to persist refresh token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", "", err
	}

	logger.Log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, accessToken, refreshToken, nil
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(userID string) error {
	if err := s.users.SetRefreshToken(userID, nil); err != nil {
		logger.Log.Error("Failed to clear refresh token",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("User logged out", zap.String("user_id", userID))
	return nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated. The presented token must exactly
// match the stored one, which rejects replay of superseded tokens.
func (s *AuthService) Refresh(presented string) (string, error) {
	claims, err := s.tokens.Validate(presented, utils.TokenRefresh)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.FindActiveByID(claims.Subject)
	if err != nil {
		logger.Log.Error("Failed to look up user for refresh", zap.Error(err))
		return "", err
	}
	if user == nil {
		return "", ErrInvalidRefreshToken
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		logger.Log.Warn("Refresh rejected: token superseded or revoked",
			zap.String("user_id", user.ID),
		)
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.Generate(utils.TokenAccess, user.ID, user.Role)
	if err != nil {
		logger.Log.Error("Failed to generate access token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return "", err
	}

	return accessToken, nil
}

// ResetPassword verifies the current password, stores the new hash and
// revokes the refresh token so other sessions must log in again.
func (s *AuthService) ResetPassword(userID, currentPassword, newPassword string) error {
	user, err := s.users.FindActiveByID(userID)
	if err != nil {
		logger.Log.Error("Failed to look up user for password reset", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify current password",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	if !valid {
		logger.Log.Warn("Password reset rejected: wrong current password",
			zap.String("user_id", userID),
		)
		return ErrInvalidCredentials
	}

	passwordHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Failed to hash new password", zap.Error(err))
		return err
	}

	if err := s.users.UpdatePassword(userID, passwordHash); err != nil {
		logger.Log.Error("Failed to update password",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Password reset", zap.String("user_id", userID))
	return nil
}

func validateRegisterInput(fullName, username, email, password string) error {
	if fullName == "" || username == "" || email == "" || strings.TrimSpace(password) == "" {
		return &ValidationError{Message: "all fields are required"}
	}
	if len(username) < 3 {
		return &ValidationError{Message: "username must be at least 3 characters"}
	}
	if len(username) > 50 {
		return &ValidationError{Message: "username must be at most 50 characters"}
	}
	if !emailRegex.MatchString(email) {
		return &ValidationError{Message: "invalid email format"}
	}
	if len(email) > 100 {
		return &ValidationError{Message: "email too long"}
	}
	if len(password) < 6 {
		return &ValidationError{Message: "password must be at least 6 characters"}
	}
	if len(password) > 128 {
		return &ValidationError{Message: "password too long"}
	}
	return nil
}
