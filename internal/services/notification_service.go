package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

// --- Custom Service Errors for Notifications ---
var (
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotificationNotOwned is returned when a member addresses a
	// notification belonging to someone else. Handlers present it the same
	// way as a missing notification so IDs cannot be probed.
	ErrNotificationNotOwned = errors.New("notification does not belong to member")
	ErrNotificationInvalid  = errors.New("notification data validation error")
)

// NotifyRequest DTO
type NotifyRequest struct {
	Title            string  `json:"title" binding:"required"`
	Message          string  `json:"message" binding:"required"`
	NotificationType string  `json:"notification_type"`
	ExpiresAt        *string `json:"expires_at"` // Format RFC3339
}

// NotificationService delivers and manages member notifications.
type NotificationService interface {
	Notify(memberID int64, req NotifyRequest) (*models.Notification, error)
	ListForMember(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(memberID, notificationID int64) error
	MarkUnread(memberID, notificationID int64) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	db               *sql.DB
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(notificationRepo repositories.NotificationRepository, db *sql.DB) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, db: db}
}

// Notify creates a notification for a member. The type defaults to info.
func (s *notificationService) Notify(memberID int64, req NotifyRequest) (*models.Notification, error) {
	notificationType := req.NotificationType
	if notificationType == "" {
		notificationType = models.NotificationTypeInfo
	}
	if !models.IsValidNotificationType(notificationType) {
		return nil, fmt.Errorf("%w: unknown notification type '%s'", ErrNotificationInvalid, notificationType)
	}

	notification := &models.Notification{
		MemberID:         memberID,
		Title:            req.Title,
		Message:          req.Message,
		NotificationType: notificationType,
	}
	if req.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: expires_at must be RFC3339", ErrNotificationInvalid)
		}
		notification.ExpiresAt = &expiresAt
	}

	if _, err := s.notificationRepo.CreateNotification(s.db, notification); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// ListForMember retrieves a member's notifications, newest first.
func (s *notificationService) ListForMember(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.GetNotificationsByMemberID(memberID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// setRead enforces ownership before flipping the read flag. The ownership
// check runs against the member passed in, not the caller's claim about it.
func (s *notificationService) setRead(memberID, notificationID int64, read bool) error {
	notification, err := s.notificationRepo.GetNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if notification.MemberID != memberID {
		return ErrNotificationNotOwned
	}
	if err := s.notificationRepo.SetNotificationRead(s.db, notificationID, read); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to update notification read flag: %w", err)
	}
	return nil
}

// MarkRead marks a member's notification as read. Idempotent.
func (s *notificationService) MarkRead(memberID, notificationID int64) error {
	return s.setRead(memberID, notificationID, true)
}

// MarkUnread marks a member's notification as unread. Idempotent.
func (s *notificationService) MarkUnread(memberID, notificationID int64) error {
	return s.setRead(memberID, notificationID, false)
}
