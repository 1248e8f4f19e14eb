package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// NotificationRepository defines the interface for member notifications.
type NotificationRepository interface {
	CreateNotification(executor SQLExecutor, notification *models.Notification) (int64, error)
	GetNotificationByID(id int64) (*models.Notification, error)
	GetNotificationsByMemberID(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error)
	SetNotificationRead(executor SQLExecutor, id int64, read bool) error
	CountWelcomeNotifications(memberID int64) (int, error)
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, member_id, title, message, notification_type, is_read, created_at, expires_at`

// CreateNotification appends a notification for a member.
func (r *notificationRepository) CreateNotification(executor SQLExecutor, notification *models.Notification) (int64, error) {
	query := `INSERT INTO notifications (member_id, title, message, notification_type, is_read, created_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	notification.CreatedAt = time.Now()
	if notification.NotificationType == "" {
		notification.NotificationType = models.NotificationTypeInfo
	}

	var expiresAt sql.NullTime
	if notification.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *notification.ExpiresAt, Valid: true}
	}

	err := executor.QueryRow(query,
		notification.MemberID, notification.Title, notification.Message,
		notification.NotificationType, notification.IsRead, notification.CreatedAt, expiresAt,
	).Scan(&notification.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: member %d does not exist (constraint: %s)", ErrNotFound, notification.MemberID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating notification: %v", ErrDatabaseError, err)
	}
	return notification.ID, nil
}

// GetNotificationByID retrieves a notification by its ID.
func (r *notificationRepository) GetNotificationByID(id int64) (*models.Notification, error) {
	n := &models.Notification{}
	var expiresAt sql.NullTime
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&n.ID, &n.MemberID, &n.Title, &n.Message, &n.NotificationType,
		&n.IsRead, &n.CreatedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting notification by ID %d: %v", ErrDatabaseError, id, err)
	}
	if expiresAt.Valid {
		n.ExpiresAt = &expiresAt.Time
	}
	return n, nil
}

// GetNotificationsByMemberID retrieves a member's notifications, newest
// first. A limit of 0 returns all of them.
func (r *notificationRepository) GetNotificationsByMemberID(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE member_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	args := []interface{}{memberID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying notifications for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var expiresAt sql.NullTime
		if err := rows.Scan(
			&n.ID, &n.MemberID, &n.Title, &n.Message, &n.NotificationType,
			&n.IsRead, &n.CreatedAt, &expiresAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning notification: %v", ErrDatabaseError, err)
		}
		if expiresAt.Valid {
			n.ExpiresAt = &expiresAt.Time
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating notification rows: %v", ErrDatabaseError, err)
	}
	return notifications, nil
}

// SetNotificationRead sets the read flag. Setting it to an already-held
// value is a no-op, which keeps mark-read idempotent.
func (r *notificationRepository) SetNotificationRead(executor SQLExecutor, id int64, read bool) error {
	result, err := executor.Exec(`UPDATE notifications SET is_read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return fmt.Errorf("%w: updating notification ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for notification ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountWelcomeNotifications counts success-type notifications for a member.
// Used to keep the approval side effects idempotent across re-approvals.
func (r *notificationRepository) CountWelcomeNotifications(memberID int64) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE member_id = $1 AND notification_type = $2`,
		memberID, models.NotificationTypeSuccess,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting welcome notifications for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return count, nil
}
