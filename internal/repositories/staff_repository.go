package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// StaffRepository defines the interface for staff directory operations.
type StaffRepository interface {
	CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error)
	GetStaffMemberByID(id int64) (*models.StaffMember, error)
	GetStaffMembers(activeOnly bool) ([]models.StaffMember, error)
	UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error
	SetStaffActive(executor SQLExecutor, id int64, active bool) error
	CountStaffMembers() (int, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, user_id, staff_code, full_name, phone, email, department, is_active, created_at, updated_at`

func scanStaffMember(row interface{ Scan(...interface{}) error }, staff *models.StaffMember) error {
	var userID sql.NullInt64
	err := row.Scan(
		&staff.ID, &userID, &staff.StaffCode, &staff.FullName, &staff.Phone,
		&staff.Email, &staff.Department, &staff.IsActive, &staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if userID.Valid {
		staff.UserID = &userID.Int64
	}
	return nil
}

// CreateStaffMember inserts a new staff member into the database.
func (r *staffRepository) CreateStaffMember(executor SQLExecutor, staff *models.StaffMember) (int64, error) {
	query := `INSERT INTO staff_members (user_id, staff_code, full_name, phone, email, department, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	staff.CreatedAt = currentTime
	staff.UpdatedAt = currentTime
	if staff.Department == "" {
		staff.Department = "VIP Services"
	}

	var userID sql.NullInt64
	if staff.UserID != nil {
		userID = sql.NullInt64{Int64: *staff.UserID, Valid: true}
	}

	err := executor.QueryRow(query,
		userID, staff.StaffCode, staff.FullName, staff.Phone, staff.Email,
		staff.Department, staff.IsActive, staff.CreatedAt, staff.UpdatedAt,
	).Scan(&staff.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return staff.ID, nil
}

// GetStaffMemberByID retrieves a staff member by their ID.
func (r *staffRepository) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	staff := &models.StaffMember{}
	query := `SELECT ` + staffColumns + ` FROM staff_members WHERE id = $1`

	err := scanStaffMember(r.db.QueryRow(query, id), staff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting staff member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return staff, nil
}

// GetStaffMembers retrieves all staff members, optionally active ones only,
// ordered by full name.
func (r *staffRepository) GetStaffMembers(activeOnly bool) ([]models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff_members`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY full_name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	staffMembers := []models.StaffMember{}
	for rows.Next() {
		var staff models.StaffMember
		if err := scanStaffMember(rows, &staff); err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		staffMembers = append(staffMembers, staff)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staffMembers, nil
}

// UpdateStaffMember updates an existing staff member.
func (r *staffRepository) UpdateStaffMember(executor SQLExecutor, staff *models.StaffMember) error {
	query := `UPDATE staff_members SET
	            full_name = $1, phone = $2, email = $3, department = $4, is_active = $5, updated_at = $6
	          WHERE id = $7`

	staff.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		staff.FullName, staff.Phone, staff.Email, staff.Department, staff.IsActive,
		staff.UpdatedAt, staff.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for staff member ID %d: %v", ErrDatabaseError, staff.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStaffActive toggles the active flag. Staff are never deleted while
// referenced by members or applications, so deactivation is the only
// administrative off-switch.
func (r *staffRepository) SetStaffActive(executor SQLExecutor, id int64, active bool) error {
	result, err := executor.Exec(
		`UPDATE staff_members SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("%w: setting active flag for staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for staff member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountStaffMembers returns the total number of staff rows. Used by the
// startup seeding check.
func (r *staffRepository) CountStaffMembers() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM staff_members`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting staff members: %v", ErrDatabaseError, err)
	}
	return count, nil
}
