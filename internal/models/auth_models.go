package models

import "time"

// User roles recognised by the authorization middleware.
const (
	RoleAdmin    = "Admin"
	RoleStaff    = "Staff"
	RoleCustomer = "Customer"
)

// User represents an authenticated account. Customers own applications and
// at most one member profile; staff accounts link to a StaffMember row.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means never sent in JSON responses
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
