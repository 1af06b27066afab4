package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub-backend/internal/lifecycle"
	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/service"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/response"
)

// UserHandler covers the self-service endpoints: current user, profile
// update, own-account deletion.
type UserHandler struct {
	userService *service.UserService
	cookies     utils.CookieOptions
}

func NewUserHandler(userService *service.UserService, cookies utils.CookieOptions) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookies:     cookies,
	}
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// Me returns the caller's safe projection.
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", gin.H{
		"user": user,
	})
}

// UpdateProfile updates the caller's own profile fields.
// PATCH /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("All fields are required"))
		return
	}

	updated, err := h.userService.UpdateProfile(user.ID, req.FullName, req.Username, req.Email)
	if err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{
		"user": updated.Safe(),
	})
}

// DeleteAccount soft-deletes the caller's own account and clears the auth
// cookies.
// DELETE /api/users/me
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	if err := h.userService.SoftDelete(user.ID); err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	h.cookies.Clear(c, utils.AccessTokenCookie, utils.RefreshTokenCookie)
	response.Success(c, http.StatusOK, "Account deleted successfully", nil)
}

// translateUserError maps account-management failures onto the wire
// taxonomy.
func translateUserError(err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.BadRequest(validationErr.Message)
	case errors.Is(err, service.ErrUserNotFound):
		return response.NotFound("User not found")
	case errors.Is(err, service.ErrUserExists):
		return response.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		return response.BadRequest(err.Error())
	case errors.Is(err, lifecycle.ErrAlreadyDeleted):
		return response.Conflict("User is already deleted")
	case errors.Is(err, lifecycle.ErrNotDeleted):
		return response.Conflict("User is not deleted")
	default:
		return err
	}
}
