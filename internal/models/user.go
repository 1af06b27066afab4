package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the allowed values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	FullName     string  `gorm:"type:varchar(100);not null" json:"full_name"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Role         Role    `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
	RefreshToken *string `gorm:"type:text" json:"-"` // single live refresh token, rotated by replacement

	// Audit trail for soft delete / restore. LastDeletedAt survives restores.
	LastDeletedAt *time.Time `json:"last_deleted_at,omitempty"`
	RestoredAt    *time.Time `json:"restored_at,omitempty"`
	RestoredBy    *string    `gorm:"type:uuid" json:"restored_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Deleted reports whether the account is currently soft-deleted.
func (u *User) Deleted() bool {
	return u.DeletedAt.Valid
}

// SafeUser is the projection returned to clients. It carries no credential
// material.
type SafeUser struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) Safe() SafeUser {
	safe := SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		deletedAt := u.DeletedAt.Time
		safe.DeletedAt = &deletedAt
	}
	return safe
}
