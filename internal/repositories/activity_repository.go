package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ActivityRepository defines the interface for the append-only activity log.
// There are deliberately no update or delete methods.
type ActivityRepository interface {
	CreateActivity(executor SQLExecutor, activity *models.Activity) (int64, error)
	GetActivitiesByMemberID(memberID int64, limit int) ([]models.Activity, error)
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new instance of ActivityRepository.
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// CreateActivity appends an activity entry for a member. The only failure
// mode besides infrastructure errors is a missing member (foreign key).
func (r *activityRepository) CreateActivity(executor SQLExecutor, activity *models.Activity) (int64, error) {
	query := `INSERT INTO activities (member_id, activity_type, title, description, staff_id, timestamp, is_important)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}

	var staffID sql.NullInt64
	if activity.StaffID != nil {
		staffID = sql.NullInt64{Int64: *activity.StaffID, Valid: true}
	}

	err := executor.QueryRow(query,
		activity.MemberID, activity.ActivityType, activity.Title, activity.Description,
		staffID, activity.Timestamp, activity.IsImportant,
	).Scan(&activity.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: member %d does not exist (constraint: %s)", ErrNotFound, activity.MemberID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating activity: %v", ErrDatabaseError, err)
	}
	return activity.ID, nil
}

// GetActivitiesByMemberID retrieves a member's activities, newest first.
// A limit of 0 returns the full history.
func (r *activityRepository) GetActivitiesByMemberID(memberID int64, limit int) ([]models.Activity, error) {
	query := `SELECT id, member_id, activity_type, title, description, staff_id, timestamp, is_important
	          FROM activities WHERE member_id = $1 ORDER BY timestamp DESC`
	args := []interface{}{memberID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying activities for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var staffID sql.NullInt64
		if err := rows.Scan(
			&a.ID, &a.MemberID, &a.ActivityType, &a.Title, &a.Description,
			&staffID, &a.Timestamp, &a.IsImportant,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning activity: %v", ErrDatabaseError, err)
		}
		if staffID.Valid {
			a.StaffID = &staffID.Int64
		}
		activities = append(activities, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating activity rows: %v", ErrDatabaseError, err)
	}
	return activities, nil
}
