package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/testutil"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init(false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type middlewareEnv struct {
	router *gin.Engine
	tokens *utils.TokenManager
	db     *gorm.DB
}

func setupMiddlewareEnv(t *testing.T) *middlewareEnv {
	t.Helper()

	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })

	tokens := utils.NewTokenManager(utils.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	userRepo := repository.NewUserRepository(testDB.DB)

	router := gin.New()
	protected := router.Group("/protected", middleware.AuthMiddleware(userRepo, tokens))
	protected.GET("", func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user": user})
	})

	admin := router.Group("/admin",
		middleware.AuthMiddleware(userRepo, tokens),
		middleware.RequireRoles(models.RoleAdmin),
	)
	admin.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &middlewareEnv{router: router, tokens: tokens, db: testDB.DB}
}

func (e *middlewareEnv) seedUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	user, err := testutil.CreateTestUser("Test User", username, username+"@example.com", "Test123456", role)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *middlewareEnv) get(path string, configure func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if configure != nil {
		configure(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	message, _ := body["message"].(string)
	return message
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	env := setupMiddlewareEnv(t)

	w := env.get("/protected", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized: no access token", responseMessage(t, w))
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.seedUser(t, "ann", models.RoleUser)

	token, err := env.tokens.Generate(utils.TokenAccess, user.ID, user.Role)
	require.NoError(t, err)

	w := env.get("/protected", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
}

// The identity resolved into the request context is the safe projection,
// so no handler can accidentally expose credential material.
func TestAuthMiddleware_ContextIdentityCarriesNoCredentials(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.seedUser(t, "ann", models.RoleUser)

	token, err := env.tokens.Generate(utils.TokenAccess, user.ID, user.Role)
	require.NoError(t, err)

	w := env.get("/protected", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), user.PasswordHash)
	assert.NotContains(t, w.Body.String(), "refresh_token")
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.seedUser(t, "ann", models.RoleUser)

	token, err := env.tokens.Generate(utils.TokenAccess, user.ID, user.Role)
	require.NoError(t, err)

	w := env.get("/protected", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: token})
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.seedUser(t, "ann", models.RoleUser)

	expired := utils.NewTokenManager(utils.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  -time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	token, err := expired.Generate(utils.TokenAccess, user.ID, user.Role)
	require.NoError(t, err)

	w := env.get("/protected", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access token expired", responseMessage(t, w))
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	env := setupMiddlewareEnv(t)
	user := env.seedUser(t, "ann", models.RoleUser)

	// A refresh token is signed with the other secret and never grants
	// access.
	refreshToken, err := env.tokens.Generate(utils.TokenRefresh, user.ID, user.Role)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"refreshToken": refreshToken,
	} {
		t.Run(name, func(t *testing.T) {
			w := env.get("/protected", func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token)
			})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid access token", responseMessage(t, w))
		})
	}
}

func TestAuthMiddleware_DeletedAndInactiveAccounts(t *testing.T) {
	env := setupMiddlewareEnv(t)

	deleted := env.seedUser(t, "deleted", models.RoleUser)
	require.NoError(t, env.db.Delete(deleted).Error)

	inactive := env.seedUser(t, "inactive", models.RoleUser)
	require.NoError(t, env.db.Model(inactive).Update("is_active", false).Error)

	for name, user := range map[string]*models.User{
		"deleted":  deleted,
		"inactive": inactive,
	} {
		t.Run(name, func(t *testing.T) {
			// The token itself is still structurally valid.
			token, err := env.tokens.Generate(utils.TokenAccess, user.ID, user.Role)
			require.NoError(t, err)

			w := env.get("/protected", func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+token)
			})

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", responseMessage(t, w))
		})
	}
}

func TestRequireRoles(t *testing.T) {
	env := setupMiddlewareEnv(t)

	admin := env.seedUser(t, "admin", models.RoleAdmin)
	regular := env.seedUser(t, "regular", models.RoleUser)

	adminToken, err := env.tokens.Generate(utils.TokenAccess, admin.ID, admin.Role)
	require.NoError(t, err)
	regularToken, err := env.tokens.Generate(utils.TokenAccess, regular.ID, regular.Role)
	require.NoError(t, err)

	w := env.get("/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.get("/admin", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+regularToken)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: insufficient permissions", responseMessage(t, w))
}
