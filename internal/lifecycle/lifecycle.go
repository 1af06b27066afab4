package lifecycle

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"taskhub-backend/internal/models"
)

// Account state machine: Active <-> Deleted. Soft delete is only valid from
// Active, restore only from Deleted. Every caller (self-delete, admin delete,
// restore) goes through these two functions so the preconditions are enforced
// in exactly one place. The repository layer repeats the precondition as a
// conditional-update predicate to defend against concurrent transitions.

var (
	ErrAlreadyDeleted = errors.New("account is already deleted")
	ErrNotDeleted     = errors.New("account is not deleted")
)

// SoftDelete transitions the user from Active to Deleted. It stamps the
// deletion timestamps, deactivates the account and revokes the stored
// refresh token.
func SoftDelete(u *models.User, now time.Time) error {
	if u.Deleted() {
		return ErrAlreadyDeleted
	}

	u.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	lastDeletedAt := now
	u.LastDeletedAt = &lastDeletedAt
	u.IsActive = false
	u.RefreshToken = nil

	return nil
}

// Restore transitions the user from Deleted back to Active, recording who
// restored the account and when. LastDeletedAt is kept for audit.
func Restore(u *models.User, actorID string, now time.Time) error {
	if !u.Deleted() {
		return ErrNotDeleted
	}

	u.DeletedAt = gorm.DeletedAt{}
	u.IsActive = true
	restoredAt := now
	u.RestoredAt = &restoredAt
	u.RestoredBy = &actorID

	return nil
}
