package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
)

var taskSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"start_date": "start_date",
	"end_date":   "end_date",
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID returns the task only if it belongs to the given owner.
func (r *TaskRepository) FindByID(id, userID string) (*models.Task, error) {
	var task models.Task
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

// ListByUser returns a page of the owner's tasks plus the total count.
// Search matches title and description case-insensitively.
func (r *TaskRepository) ListByUser(userID string, p pagination.Params) ([]*models.Task, int64, error) {
	tx := r.db.Model(&models.Task{}).Where("user_id = ?", userID)

	if p.Search != "" {
		pattern := "%" + strings.ToLower(p.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if order := p.OrderClause(taskSortColumns); order != "" {
		tx = tx.Order(order)
	}

	var tasks []*models.Task
	err := tx.Offset(p.Offset()).Limit(p.Limit).Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TaskRepository) Save(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes the task if it belongs to the owner. Returns false when no
// row matched.
func (r *TaskRepository) Delete(id, userID string) (bool, error) {
	res := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
