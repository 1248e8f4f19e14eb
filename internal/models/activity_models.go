package models

import "time"

// Activity event types.
const (
	ActivityTypeLogin      = "login"
	ActivityTypeInvestment = "investment"
	ActivityTypeWithdrawal = "withdrawal"
	ActivityTypeSupport    = "support"
	ActivityTypeMeeting    = "meeting"
	ActivityTypeCall       = "call"
	ActivityTypeEmail      = "email"
	ActivityTypeOther      = "other"
)

// Activity is an append-only log entry describing something that happened to
// a member. Entries are never updated or deleted.
type Activity struct {
	ID           int64     `json:"id" db:"id"`
	MemberID     int64     `json:"member_id" db:"member_id"`
	ActivityType string    `json:"activity_type" db:"activity_type"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	StaffID      *int64    `json:"staff_id,omitempty" db:"staff_id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	IsImportant  bool      `json:"is_important" db:"is_important"`
}

// IsValidActivityType reports whether t names a known activity type.
func IsValidActivityType(t string) bool {
	switch t {
	case ActivityTypeLogin, ActivityTypeInvestment, ActivityTypeWithdrawal, ActivityTypeSupport,
		ActivityTypeMeeting, ActivityTypeCall, ActivityTypeEmail, ActivityTypeOther:
		return true
	}
	return false
}
