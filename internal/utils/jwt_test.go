package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub-backend/internal/models"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func TestGenerate_And_Validate(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	userID := uuid.NewString()

	for _, kind := range []TokenKind{TokenAccess, TokenRefresh} {
		token, err := manager.Generate(kind, userID, models.RoleUser)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := manager.Validate(token, kind)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.Subject)
		assert.Equal(t, models.RoleUser, claims.Role)
	}
}

func TestGeneratePair(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())
	userID := uuid.NewString()

	access, refresh, err := manager.GeneratePair(userID, models.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := manager.Validate(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, accessClaims.Role)

	refreshClaims, err := manager.Validate(refresh, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.Subject)
}

// A token of one kind must never validate against the other kind's secret.
func TestValidate_WrongKind(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	access, refresh, err := manager.GeneratePair(uuid.NewString(), models.RoleUser)
	require.NoError(t, err)

	_, err = manager.Validate(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Validate(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.AccessExpiry = -1 * time.Minute
	manager := NewTokenManager(cfg)

	token, err := manager.Generate(TokenAccess, uuid.NewString(), models.RoleUser)
	require.NoError(t, err)

	_, err = manager.Validate(token, TokenAccess)
	assert.ErrorIs(t, err, ErrExpiredToken, "Expired tokens should be reported distinctly")
}

func TestValidate_TamperedSignature(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	token, err := manager.Generate(TokenAccess, uuid.NewString(), models.RoleUser)
	require.NoError(t, err)

	_, err = manager.Validate(token+"x", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	manager := NewTokenManager(testTokenConfig())

	_, err := manager.Validate("not.a.token", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
