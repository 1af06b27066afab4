package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/response"
)

const currentUserKey = "currentUser"

// AuthMiddleware resolves the caller identity from the access-token cookie
// or the bearer header, verifies it against the access secret and loads the
// account. Expired tokens get a distinct message so clients can trigger a
// silent refresh; every other failure is a plain 401.
func AuthMiddleware(users *repository.UserRepository, tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Error(c, response.Unauthorized("Unauthorized: no access token"))
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString, utils.TokenAccess)
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				response.Error(c, response.Unauthorized("Access token expired"))
			} else {
				response.Error(c, response.Unauthorized("Invalid access token"))
			}
			c.Abort()
			return
		}

		// Deleted and deactivated accounts fail identity resolution even
		// with a structurally valid token.
		user, err := users.FindActiveByID(claims.Subject)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if user == nil {
			response.Error(c, response.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		// Downstream handlers only need the identity, never the
		// credential material, so the context carries the safe
		// projection.
		safe := user.Safe()
		c.Set(currentUserKey, &safe)
		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. It expects
// AuthMiddleware to have run first.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Error(c, response.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, response.Forbidden("Forbidden: insufficient permissions"))
		c.Abort()
	}
}

// CurrentUser returns the identity resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.SafeUser, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.SafeUser)
	return user, ok
}

// extractToken prefers the cookie, falling back to "Bearer <token>".
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}
	return ""
}
