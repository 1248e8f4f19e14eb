package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// MemberRepository defines the interface for VIP member persistence.
type MemberRepository interface {
	CreateMember(executor SQLExecutor, member *models.Member) (int64, error)
	GetMemberByID(id int64) (*models.Member, error)
	GetMemberByCustomerID(customerID int64) (*models.Member, error)
	GetMembers(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error)
	UpdateMember(executor SQLExecutor, member *models.Member) error
	UpdateMemberStatus(executor SQLExecutor, id int64, status string) error
	UpdateMemberTier(executor SQLExecutor, id int64, tier string) error
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, customer_id, member_code, assigned_staff_id, membership_tier, status,
	phone, preferred_contact_method,
	priority_support, dedicated_account_manager, exclusive_investment_opportunities, faster_processing,
	total_investments, monthly_income, net_worth,
	membership_start_date, last_contact_date, notes, created_at, updated_at`

func scanMember(row interface{ Scan(...interface{}) error }, m *models.Member) error {
	var assignedStaffID sql.NullInt64
	var lastContact sql.NullTime
	err := row.Scan(
		&m.ID, &m.CustomerID, &m.MemberCode, &assignedStaffID, &m.MembershipTier, &m.Status,
		&m.Phone, &m.ContactMethod,
		&m.PrioritySupport, &m.DedicatedAccountManager, &m.ExclusiveInvestmentOpportunities, &m.FasterProcessing,
		&m.TotalInvestments, &m.MonthlyIncome, &m.NetWorth,
		&m.MembershipStartDate, &lastContact, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if assignedStaffID.Valid {
		m.AssignedStaffID = &assignedStaffID.Int64
	}
	if lastContact.Valid {
		m.LastContactDate = &lastContact.Time
	}
	return nil
}

// CreateMember inserts a new member row. The customer_id unique constraint
// backs the one-member-per-customer invariant.
func (r *memberRepository) CreateMember(executor SQLExecutor, member *models.Member) (int64, error) {
	query := `INSERT INTO members (customer_id, member_code, assigned_staff_id, membership_tier, status,
	            phone, preferred_contact_method,
	            priority_support, dedicated_account_manager, exclusive_investment_opportunities, faster_processing,
	            total_investments, monthly_income, net_worth,
	            membership_start_date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	          RETURNING id`

	currentTime := time.Now()
	member.CreatedAt = currentTime
	member.UpdatedAt = currentTime
	if member.MembershipStartDate.IsZero() {
		member.MembershipStartDate = currentTime
	}

	var assignedStaffID sql.NullInt64
	if member.AssignedStaffID != nil {
		assignedStaffID = sql.NullInt64{Int64: *member.AssignedStaffID, Valid: true}
	}

	err := executor.QueryRow(query,
		member.CustomerID, member.MemberCode, assignedStaffID, member.MembershipTier, member.Status,
		member.Phone, member.ContactMethod,
		member.PrioritySupport, member.DedicatedAccountManager, member.ExclusiveInvestmentOpportunities, member.FasterProcessing,
		member.TotalInvestments, member.MonthlyIncome, member.NetWorth,
		member.MembershipStartDate, member.Notes, member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating member: %v", ErrDatabaseError, err)
	}
	return member.ID, nil
}

// GetMemberByID retrieves a member by their ID.
func (r *memberRepository) GetMemberByID(id int64) (*models.Member, error) {
	member := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	err := scanMember(r.db.QueryRow(query, id), member)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return member, nil
}

// GetMemberByCustomerID retrieves the member owned by the given customer.
func (r *memberRepository) GetMemberByCustomerID(customerID int64) (*models.Member, error) {
	member := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE customer_id = $1`

	err := scanMember(r.db.QueryRow(query, customerID), member)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by customer ID %d: %v", ErrDatabaseError, customerID, err)
	}
	return member, nil
}

// GetMembers retrieves members with pagination and optional status/tier filters.
func (r *memberRepository) GetMembers(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error) {
	members := []models.Member{}
	totalCount := 0

	query := `SELECT ` + memberColumns + `, COUNT(*) OVER() as total_count FROM members`
	var conditions []string
	var args []interface{}
	argCount := 1

	if statusFilter != nil && *statusFilter != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *statusFilter)
		argCount++
	}
	if tierFilter != nil && *tierFilter != "" {
		conditions = append(conditions, fmt.Sprintf("membership_tier = $%d", argCount))
		args = append(args, *tierFilter)
		argCount++
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	if pageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		var assignedStaffID sql.NullInt64
		var lastContact sql.NullTime
		if err := rows.Scan(
			&m.ID, &m.CustomerID, &m.MemberCode, &assignedStaffID, &m.MembershipTier, &m.Status,
			&m.Phone, &m.ContactMethod,
			&m.PrioritySupport, &m.DedicatedAccountManager, &m.ExclusiveInvestmentOpportunities, &m.FasterProcessing,
			&m.TotalInvestments, &m.MonthlyIncome, &m.NetWorth,
			&m.MembershipStartDate, &lastContact, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		if assignedStaffID.Valid {
			m.AssignedStaffID = &assignedStaffID.Int64
		}
		if lastContact.Valid {
			m.LastContactDate = &lastContact.Time
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	return members, totalCount, nil
}

// UpdateMember updates an existing member's mutable fields.
func (r *memberRepository) UpdateMember(executor SQLExecutor, member *models.Member) error {
	query := `UPDATE members SET
	            assigned_staff_id = $1, membership_tier = $2, status = $3, phone = $4,
	            preferred_contact_method = $5,
	            priority_support = $6, dedicated_account_manager = $7,
	            exclusive_investment_opportunities = $8, faster_processing = $9,
	            total_investments = $10, monthly_income = $11, net_worth = $12,
	            last_contact_date = $13, notes = $14, updated_at = $15
	          WHERE id = $16`

	member.UpdatedAt = time.Now()
	var assignedStaffID sql.NullInt64
	if member.AssignedStaffID != nil {
		assignedStaffID = sql.NullInt64{Int64: *member.AssignedStaffID, Valid: true}
	}
	var lastContact sql.NullTime
	if member.LastContactDate != nil {
		lastContact = sql.NullTime{Time: *member.LastContactDate, Valid: true}
	}

	result, err := executor.Exec(query,
		assignedStaffID, member.MembershipTier, member.Status, member.Phone,
		member.ContactMethod,
		member.PrioritySupport, member.DedicatedAccountManager,
		member.ExclusiveInvestmentOpportunities, member.FasterProcessing,
		member.TotalInvestments, member.MonthlyIncome, member.NetWorth,
		lastContact, member.Notes, member.UpdatedAt, member.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMemberStatus sets only the status column.
func (r *memberRepository) UpdateMemberStatus(executor SQLExecutor, id int64, status string) error {
	return r.updateSingleColumn(executor, id, "status", status)
}

// UpdateMemberTier sets only the membership tier column.
func (r *memberRepository) UpdateMemberTier(executor SQLExecutor, id int64, tier string) error {
	return r.updateSingleColumn(executor, id, "membership_tier", tier)
}

func (r *memberRepository) updateSingleColumn(executor SQLExecutor, id int64, column, value string) error {
	query := fmt.Sprintf(`UPDATE members SET %s = $1, updated_at = $2 WHERE id = $3`, column)
	result, err := executor.Exec(query, value, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
