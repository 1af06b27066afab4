package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskhub-backend/internal/models"
	"taskhub-backend/internal/pagination"
)

// userSortColumns whitelists the sortable columns for user listings.
var userSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"username":   "username",
	"email":      "email",
	"full_name":  "full_name",
	"role":       "role",
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByIdentifier looks a user up by email or username, including
// soft-deleted records. The identifier is normalized to lowercase before
// comparison. Callers decide how much of the account state to reveal.
func (r *UserRepository) FindByIdentifier(identifier string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user models.User
	err := r.db.Unscoped().
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindActiveByID returns the user only if it is neither soft-deleted nor
// deactivated.
func (r *UserRepository) FindActiveByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// FindByID returns the user regardless of lifecycle state.
func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Unscoped().Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// ActiveExists reports whether an active, non-deleted user already holds the
// given email or username. Used for registration conflict checks.
func (r *UserRepository) ActiveExists(email, username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("(email = ? OR username = ?) AND is_active = ?", email, username, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveExistsExcept is ActiveExists minus the given user, for profile
// updates that keep some identifiers unchanged.
func (r *UserRepository) ActiveExistsExcept(email, username, exceptID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("(email = ? OR username = ?) AND is_active = ? AND id <> ?", email, username, true, exceptID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListQuery controls the admin user listing.
type ListQuery struct {
	IncludeDeleted  bool
	IncludeInactive bool
	Params          pagination.Params
}

// List returns a page of users plus the total matching count. Search matches
// full name, username or email case-insensitively.
func (r *UserRepository) List(q ListQuery) ([]*models.User, int64, error) {
	tx := r.db.Unscoped().Model(&models.User{})

	if !q.IncludeDeleted {
		tx = tx.Where("deleted_at IS NULL")
	}
	if !q.IncludeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	if q.Params.Search != "" {
		pattern := "%" + strings.ToLower(q.Params.Search) + "%"
		tx = tx.Where(
			"LOWER(full_name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if order := q.Params.OrderClause(userSortColumns); order != "" {
		tx = tx.Order(order)
	}

	var users []*models.User
	err := tx.Offset(q.Params.Offset()).Limit(q.Params.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateRole changes the role of a non-deleted user. Returns false when no
// row matched, i.e. the user is missing or soft-deleted.
func (r *UserRepository) UpdateRole(id string, role models.Role) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("role", role)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetRefreshToken stores (or clears, with nil) the single currently-valid
// refresh token. Only the token column is touched.
func (r *UserRepository) SetRefreshToken(id string, token *string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// UpdatePassword replaces the password hash and revokes the stored refresh
// token in the same write, forcing re-login on other sessions.
func (r *UserRepository) UpdatePassword(id string, passwordHash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"refresh_token": nil,
		}).Error
}

// UpdateProfile updates the mutable profile fields of an active user.
func (r *UserRepository) UpdateProfile(id string, fullName, username, email string) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"full_name": fullName,
			"username":  username,
			"email":     email,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SoftDelete performs the Active -> Deleted transition as a single
// conditional update keyed by id and current state, so a concurrent delete
// cannot be applied twice. Returns false when no row was in Active state.
func (r *UserRepository) SoftDelete(id string, now time.Time) (bool, error) {
	res := r.db.Unscoped().Model(&models.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at":      now,
			"last_deleted_at": now,
			"is_active":       false,
			"refresh_token":   nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Restore performs the Deleted -> Active transition under the same
// conditional-update discipline. Returns false when no row was in Deleted
// state.
func (r *UserRepository) Restore(id, actorID string, now time.Time) (bool, error) {
	res := r.db.Unscoped().Model(&models.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"deleted_at":  nil,
			"is_active":   true,
			"restored_at": now,
			"restored_by": actorID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
