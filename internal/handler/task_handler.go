package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
	"taskhub-backend/internal/service"
	"taskhub-backend/pkg/response"
)

// TaskHandler covers owner-scoped task CRUD. All routes sit behind
// AuthMiddleware.
type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type TaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Repeating   bool               `json:"repeating"`
	Recurrence  *models.Recurrence `json:"recurrence"`
	StartDate   *time.Time         `json:"start_date"`
	EndDate     *time.Time         `json:"end_date"`
}

func (r TaskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Repeating:   r.Repeating,
		Recurrence:  r.Recurrence,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// Create adds a task owned by the caller.
// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("Title is required"))
		return
	}

	task, err := h.taskService.Create(user.ID, req.toInput())
	if err != nil {
		response.Error(c, translateTaskError(err))
		return
	}

	response.Success(c, http.StatusCreated, "Task created successfully", gin.H{
		"task": task,
	})
}

// List returns the caller's tasks, paginated and searchable.
// GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	tasks, meta, err := h.taskService.List(user.ID, pagination.Parse(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Tasks retrieved successfully", gin.H{
		"tasks":      tasks,
		"pagination": meta,
	})
}

// Get returns one of the caller's tasks.
// GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	task, err := h.taskService.Get(c.Param("id"), user.ID)
	if err != nil {
		response.Error(c, translateTaskError(err))
		return
	}

	response.Success(c, http.StatusOK, "Task retrieved successfully", gin.H{
		"task": task,
	})
}

// Update replaces the mutable fields of one of the caller's tasks.
// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest("Title is required"))
		return
	}

	task, err := h.taskService.Update(c.Param("id"), user.ID, req.toInput())
	if err != nil {
		response.Error(c, translateTaskError(err))
		return
	}

	response.Success(c, http.StatusOK, "Task updated successfully", gin.H{
		"task": task,
	})
}

// Delete removes one of the caller's tasks.
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Unauthorized"))
		return
	}

	if err := h.taskService.Delete(c.Param("id"), user.ID); err != nil {
		response.Error(c, translateTaskError(err))
		return
	}

	response.Success(c, http.StatusOK, "Task deleted successfully", nil)
}

func translateTaskError(err error) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.BadRequest(validationErr.Message)
	case errors.Is(err, service.ErrTaskNotFound):
		return response.NotFound("Task not found")
	default:
		return err
	}
}
