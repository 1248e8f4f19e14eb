package services

import (
	"database/sql"
	"errors"
	"fmt"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

// --- Custom Service Errors for Staff ---
var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrStaffCodeExists = errors.New("staff code already in use")
	ErrStaffValidation = errors.New("staff data validation error")
)

// --- Staff DTOs ---

type CreateStaffRequest struct {
	UserID     *int64  `json:"user_id"`
	StaffCode  string  `json:"staff_code" binding:"required"`
	FullName   string  `json:"full_name" binding:"required"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Department string  `json:"department"`
}

type UpdateStaffRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

// --- StaffService Interface ---

type StaffService interface {
	CreateStaffMember(req CreateStaffRequest) (*models.StaffMember, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers(activeOnly bool) ([]models.StaffMember, error)
	UpdateStaffMember(id int64, req UpdateStaffRequest) (*models.StaffMember, error)
	SetStaffActive(id int64, active bool) error
}

// --- staffService Implementation ---

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(staffRepo repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: staffRepo, db: db}
}

// CreateStaffMember adds a staff member to the directory. New staff start
// active.
func (s *staffService) CreateStaffMember(req CreateStaffRequest) (*models.StaffMember, error) {
	if req.StaffCode == "" || req.FullName == "" {
		return nil, fmt.Errorf("%w: staff_code and full_name are required", ErrStaffValidation)
	}

	staff := &models.StaffMember{
		UserID:     req.UserID,
		StaffCode:  req.StaffCode,
		FullName:   req.FullName,
		Phone:      req.Phone,
		Email:      req.Email,
		Department: req.Department,
		IsActive:   true,
	}

	if _, err := s.staffRepo.CreateStaffMember(s.db, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrStaffCodeExists
		}
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

func (s *staffService) GetStaffMembers(activeOnly bool) ([]models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMembers(activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff members: %w", err)
	}
	return staff, nil
}

// UpdateStaffMember applies partial updates to a staff record. The staff
// code is immutable once issued.
func (s *staffService) UpdateStaffMember(id int64, req UpdateStaffRequest) (*models.StaffMember, error) {
	staff, err := s.staffRepo.GetStaffMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member for update: %w", err)
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", ErrStaffValidation)
		}
		staff.FullName = *req.FullName
	}
	if req.Phone != nil {
		staff.Phone = req.Phone
	}
	if req.Email != nil {
		staff.Email = req.Email
	}
	if req.Department != nil {
		staff.Department = *req.Department
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := s.staffRepo.UpdateStaffMember(s.db, staff); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to update staff member: %w", err)
	}
	return staff, nil
}

// SetStaffActive toggles the directory active flag. Deactivated staff keep
// their member and application references.
func (s *staffService) SetStaffActive(id int64, active bool) error {
	if err := s.staffRepo.SetStaffActive(s.db, id, active); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffNotFound
		}
		return fmt.Errorf("failed to set staff active flag: %w", err)
	}
	return nil
}
