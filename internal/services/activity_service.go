package services

import (
	"database/sql"
	"errors"
	"fmt"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

var ErrActivityValidation = errors.New("activity data validation error")

// RecordActivityRequest DTO
type RecordActivityRequest struct {
	ActivityType string `json:"activity_type" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	StaffID      *int64 `json:"staff_id"`
	IsImportant  bool   `json:"is_important"`
}

// ActivityService records and lists member activity. The log is append
// only; correcting an entry means recording a new one.
type ActivityService interface {
	Record(memberID int64, req RecordActivityRequest) (*models.Activity, error)
	ListForMember(memberID int64, limit int) ([]models.Activity, error)
}

type activityService struct {
	activityRepo repositories.ActivityRepository
	db           *sql.DB
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(activityRepo repositories.ActivityRepository, db *sql.DB) ActivityService {
	return &activityService{activityRepo: activityRepo, db: db}
}

// Record appends an activity entry for a member.
func (s *activityService) Record(memberID int64, req RecordActivityRequest) (*models.Activity, error) {
	if !models.IsValidActivityType(req.ActivityType) {
		return nil, fmt.Errorf("%w: unknown activity type '%s'", ErrActivityValidation, req.ActivityType)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrActivityValidation)
	}

	activity := &models.Activity{
		MemberID:     memberID,
		ActivityType: req.ActivityType,
		Title:        req.Title,
		Description:  req.Description,
		StaffID:      req.StaffID,
		IsImportant:  req.IsImportant,
	}
	if _, err := s.activityRepo.CreateActivity(s.db, activity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}
	return activity, nil
}

// ListForMember retrieves a member's activity history, newest first. A
// limit of 0 returns everything.
func (s *activityService) ListForMember(memberID int64, limit int) ([]models.Activity, error) {
	activities, err := s.activityRepo.GetActivitiesByMemberID(memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
