package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
	"taskhub-backend/internal/repository"
	"taskhub-backend/pkg/logger"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskInput is the mutable part of a task, shared by create and update.
type TaskInput struct {
	Title       string
	Description string
	Repeating   bool
	Recurrence  *models.Recurrence
	StartDate   *time.Time
	EndDate     *time.Time
}

// TaskService performs owner-scoped task CRUD. It relies on the caller
// identity resolved by the access-control middleware; a task belonging to
// another user behaves as if it does not exist.
type TaskService struct {
	tasks *repository.TaskRepository
}

func NewTaskService(tasks *repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(userID string, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Repeating:   input.Repeating,
		Recurrence:  input.Recurrence,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.tasks.Create(task); err != nil {
		logger.Log.Error("Failed to create task",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Task created",
		zap.String("task_id", task.ID),
		zap.String("user_id", userID),
	)
	return task, nil
}

func (s *TaskService) List(userID string, p pagination.Params) ([]*models.Task, pagination.Meta, error) {
	tasks, total, err := s.tasks.ListByUser(userID, p)
	if err != nil {
		logger.Log.Error("Failed to list tasks",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, pagination.Meta{}, err
	}
	return tasks, pagination.NewMeta(total, p), nil
}

func (s *TaskService) Get(taskID, userID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(taskID, userID)
	if err != nil {
		logger.Log.Error("Failed to get task", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) Update(taskID, userID string, input TaskInput) (*models.Task, error) {
	if err := validateTaskInput(&input); err != nil {
		return nil, err
	}

	task, err := s.Get(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Repeating = input.Repeating
	task.Recurrence = input.Recurrence
	task.StartDate = input.StartDate
	task.EndDate = input.EndDate

	if err := s.tasks.Save(task); err != nil {
		logger.Log.Error("Failed to update task", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Task updated", zap.String("task_id", taskID))
	return task, nil
}

func (s *TaskService) Delete(taskID, userID string) error {
	ok, err := s.tasks.Delete(taskID, userID)
	if err != nil {
		logger.Log.Error("Failed to delete task", zap.String("task_id", taskID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}

	logger.Log.Info("Task deleted", zap.String("task_id", taskID))
	return nil
}

func validateTaskInput(input *TaskInput) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return &ValidationError{Message: "title is required"}
	}

	if input.Repeating {
		if input.Recurrence == nil {
			return &ValidationError{Message: "recurrence is required for repeating tasks"}
		}
		if !input.Recurrence.Type.Valid() {
			return &ValidationError{Message: "invalid recurrence type"}
		}
		if input.Recurrence.Interval < 1 {
			input.Recurrence.Interval = 1
		}
	} else {
		input.Recurrence = nil
	}

	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return &ValidationError{Message: "end date must not be before start date"}
	}

	return nil
}
