package models

import "time"

// Notification types.
const (
	NotificationTypeInfo      = "info"
	NotificationTypeSuccess   = "success"
	NotificationTypeWarning   = "warning"
	NotificationTypeError     = "error"
	NotificationTypePromotion = "promotion"
)

// Notification is a member-visible message with a read flag and an optional
// expiry. Outside of admin bulk toggling, the read flag only ever moves from
// unread to read.
type Notification struct {
	ID               int64      `json:"id" db:"id"`
	MemberID         int64      `json:"member_id" db:"member_id"`
	Title            string     `json:"title" db:"title"`
	Message          string     `json:"message" db:"message"`
	NotificationType string     `json:"notification_type" db:"notification_type"`
	IsRead           bool       `json:"is_read" db:"is_read"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty" db:"expires_at"`
}

// IsValidNotificationType reports whether t names a known notification type.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypePromotion:
		return true
	}
	return false
}
