package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/service"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/logger"
	"taskhub-backend/pkg/response"
)

type AuthHandler struct {
	authService   *service.AuthService
	cookies       utils.CookieOptions
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthHandler(authService *service.AuthService, cookies utils.CookieOptions, tokenCfg utils.TokenConfig) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		cookies:       cookies,
		accessExpiry:  tokenCfg.AccessExpiry,
		refreshExpiry: tokenCfg.RefreshExpiry,
	}
}

type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register creates an account and returns the safe projection. It does not
// log the user in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Registration request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		response.Error(c, response.BadRequest("All fields are required"))
		return
	}

	user, err := h.authService.Register(req.FullName, req.Username, req.Email, req.Password)
	if err != nil {
		response.Error(c, translateAuthError(err))
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", gin.H{
		"user": user.Safe(),
	})
}

// Login accepts email or username plus password, sets both token cookies and
// returns the pair in the body as well.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("Email or username and password are required"))
		return
	}

	identifier := strings.TrimSpace(req.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}
	if identifier == "" || req.Password == "" {
		response.Error(c, response.BadRequest("Email or username and password are required"))
		return
	}

	user, accessToken, refreshToken, err := h.authService.Login(identifier, req.Password)
	if err != nil {
		response.Error(c, translateAuthError(err))
		return
	}

	h.cookies.Set(c, utils.AccessTokenCookie, accessToken, h.accessExpiry)
	h.cookies.Set(c, utils.RefreshTokenCookie, refreshToken, h.refreshExpiry)

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":         user.Safe(),
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout revokes the stored refresh token and clears both cookies.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	if err := h.authService.Logout(user.ID); err != nil {
		response.Error(c, err)
		return
	}

	h.cookies.Clear(c, utils.AccessTokenCookie, utils.RefreshTokenCookie)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}

// Refresh exchanges a refresh token (cookie, body or bearer header, in that
// order) for a new access token.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented := h.extractRefreshToken(c)
	if presented == "" {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	accessToken, err := h.authService.Refresh(presented)
	if err != nil {
		response.Error(c, translateAuthError(err))
		return
	}

	h.cookies.Set(c, utils.AccessTokenCookie, accessToken, h.accessExpiry)

	response.Success(c, http.StatusOK, "Access token refreshed successfully", gin.H{
		"accessToken": accessToken,
	})
}

// ResetPassword verifies the current password and replaces it. Cookies are
// cleared so every session re-authenticates.
// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("Fields should not be empty"))
		return
	}

	if strings.TrimSpace(req.CurrentPassword) == "" || strings.TrimSpace(req.NewPassword) == "" {
		response.Error(c, response.BadRequest("Fields should not be empty"))
		return
	}
	if req.CurrentPassword == req.NewPassword {
		response.Error(c, response.BadRequest("New password must be different from current password"))
		return
	}

	if err := h.authService.ResetPassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, translateAuthError(err))
		return
	}

	h.cookies.Clear(c, utils.AccessTokenCookie, utils.RefreshTokenCookie)
	response.Success(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) extractRefreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.RefreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken
	}

	authHeader := c.GetHeader("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return token
	}
	return ""
}

// translateAuthError maps service failures onto the wire taxonomy. The
// credential failures keep their uniform message so nothing about the
// account state leaks.
func translateAuthError(err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.BadRequest(validationErr.Message)
	case errors.Is(err, service.ErrUserExists):
		return response.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return response.Unauthorized("Invalid credentials")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		return response.Unauthorized("Invalid or expired refresh token")
	default:
		return err
	}
}
