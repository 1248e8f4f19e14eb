package models

import (
	"fmt"
	"time"
)

// Member statuses. Only active members may reach the dashboard; any other
// status routes the customer back to the application status page.
const (
	MemberStatusActive    = "active"
	MemberStatusInactive  = "inactive"
	MemberStatusPending   = "pending"
	MemberStatusSuspended = "suspended"
)

// Preferred contact methods shared by members and applications.
const (
	ContactMethodEmail = "email"
	ContactMethodPhone = "phone"
	ContactMethodBoth  = "both"
)

// Member is an approved VIP customer profile with staff assignment,
// tier-derived benefit flags and a financial snapshot copied at approval time.
type Member struct {
	ID              int64   `json:"id" db:"id"`
	CustomerID      int64   `json:"customer_id" db:"customer_id"`
	MemberCode      string  `json:"member_code" db:"member_code"` // Unique VIP member identifier
	AssignedStaffID *int64  `json:"assigned_staff_id,omitempty" db:"assigned_staff_id"`
	MembershipTier  string  `json:"membership_tier" db:"membership_tier"`
	Status          string  `json:"status" db:"status"`
	Phone           *string `json:"phone,omitempty" db:"phone"`
	ContactMethod   string  `json:"preferred_contact_method" db:"preferred_contact_method"`

	BenefitFlags

	// Financial snapshot, copied from the application on approval and not
	// live-synced with the investment subsystem.
	TotalInvestments float64 `json:"total_investments" db:"total_investments"`
	MonthlyIncome    float64 `json:"monthly_income" db:"monthly_income"`
	NetWorth         float64 `json:"net_worth" db:"net_worth"`

	MembershipStartDate time.Time  `json:"membership_start_date" db:"membership_start_date"`
	LastContactDate     *time.Time `json:"last_contact_date,omitempty" db:"last_contact_date"`
	Notes               *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`

	AssignedStaff *StaffMember `json:"assigned_staff,omitempty"` // For joining with staff details
}

// IsValidMemberStatus reports whether s names a known member status.
func IsValidMemberStatus(s string) bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusPending, MemberStatusSuspended:
		return true
	}
	return false
}

// IsValidContactMethod reports whether m names a known contact preference.
func IsValidContactMethod(m string) bool {
	switch m {
	case ContactMethodEmail, ContactMethodPhone, ContactMethodBoth:
		return true
	}
	return false
}

// MemberCodeFor derives the unique member identifier from the owning
// customer's user ID. The encoding is deterministic so re-approvals of the
// same customer always map to the same code.
func MemberCodeFor(customerID int64) string {
	return fmt.Sprintf("VIP%06d", customerID)
}
