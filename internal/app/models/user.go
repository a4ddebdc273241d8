package models

import (
	"time"
)

// User defines the account model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Email        string     `json:"email" db:"email" example:"maria@example.com"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         RoleType   `json:"role" db:"role" example:"user"`
	IsActive     bool       `json:"is_active" db:"is_active" example:"true"`
	DonorID      int64      `json:"donor_id" db:"donor_id" example:"1"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// UserProfile is an account joined with its donor record.
type UserProfile struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Role        RoleType   `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Donor       Donor      `json:"donor"`
}
