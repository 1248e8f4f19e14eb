package models

import "time"

// StaffMember represents a VIP services employee eligible for member
// assignment and application review.
type StaffMember struct {
	ID         int64     `json:"id" db:"id"`
	UserID     *int64    `json:"user_id,omitempty" db:"user_id"` // Link to users table for login
	StaffCode  string    `json:"staff_code" db:"staff_code"`     // Unique code, e.g. VIP001
	FullName   string    `json:"full_name" db:"full_name"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Department string    `json:"department" db:"department"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
