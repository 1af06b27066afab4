package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/service"
	"taskhub-backend/pkg/logger"
	"taskhub-backend/pkg/response"
)

// AdminHandler covers the role-gated account management endpoints. The
// RequireRoles(admin) guard runs before any of these.
type AdminHandler struct {
	userService *service.UserService
}

func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// ListUsers returns a paginated, searchable user listing. Deleted and
// inactive accounts are included only on request.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	query := repository.ListQuery{
		IncludeDeleted:  c.Query("includeDeleted") == "true",
		IncludeInactive: c.Query("includeInactive") == "true",
		Params:          pagination.Parse(c),
	}

	users, meta, err := h.userService.List(query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":      users,
		"pagination": meta,
	})
}

// GetUser returns a single user by id, regardless of lifecycle state.
// GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Param("id"))
	if err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", gin.H{
		"user": user.Safe(),
	})
}

// UpdateRole changes a user's role.
// PATCH /api/admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("Role is required"))
		return
	}

	targetID := c.Param("id")
	if err := h.userService.UpdateRole(targetID, req.Role); err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	logger.Log.Info("Admin updated user role",
		zap.String("admin_id", admin.ID),
		zap.String("target_user_id", targetID),
		zap.String("role", string(req.Role)),
	)

	response.Success(c, http.StatusOK, "User role updated successfully", nil)
}

// DeleteUser soft-deletes a user.
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	targetID := c.Param("id")
	if err := h.userService.SoftDelete(targetID); err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	logger.Log.Info("Admin soft-deleted user",
		zap.String("admin_id", admin.ID),
		zap.String("target_user_id", targetID),
	)

	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}

// RestoreUser restores a soft-deleted user, recording the acting admin.
// POST /api/admin/users/:id/restore
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	targetID := c.Param("id")
	if err := h.userService.Restore(targetID, admin.ID); err != nil {
		response.Error(c, translateUserError(err))
		return
	}

	logger.Log.Info("Admin restored user",
		zap.String("admin_id", admin.ID),
		zap.String("target_user_id", targetID),
	)

	response.Success(c, http.StatusOK, "User restored successfully", nil)
}
