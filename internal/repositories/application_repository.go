package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// ApplicationRepository defines the interface for VIP application persistence.
type ApplicationRepository interface {
	CreateApplication(executor SQLExecutor, app *models.Application) (int64, error)
	GetApplicationByID(id int64) (*models.Application, error)
	GetLatestApplicationByCustomerID(customerID int64) (*models.Application, error)
	GetOpenApplicationByCustomerID(customerID int64) (*models.Application, error)
	GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error)
	UpdateApplication(executor SQLExecutor, app *models.Application) error
}

type applicationRepository struct {
	db *sql.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sql.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, customer_id, status, requested_tier,
	reason_for_application, investment_experience, expected_monthly_investment, net_worth_range,
	preferred_contact_method, phone,
	assigned_reviewer_id, admin_notes, rejection_reason,
	submitted_at, reviewed_at, created_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }, app *models.Application) error {
	var reviewerID sql.NullInt64
	var reviewedAt sql.NullTime
	err := row.Scan(
		&app.ID, &app.CustomerID, &app.Status, &app.RequestedTier,
		&app.ReasonForApplication, &app.InvestmentExperience, &app.ExpectedMonthlyInvestment, &app.NetWorthRange,
		&app.ContactMethod, &app.Phone,
		&reviewerID, &app.AdminNotes, &app.RejectionReason,
		&app.SubmittedAt, &reviewedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if reviewerID.Valid {
		app.AssignedReviewerID = &reviewerID.Int64
	}
	if reviewedAt.Valid {
		app.ReviewedAt = &reviewedAt.Time
	}
	return nil
}

// CreateApplication inserts a new application in pending status. A partial
// unique index on customer_id over non-terminal statuses makes the database
// the authority on the one-open-application-per-customer rule; callers map
// ErrDuplicateKey accordingly.
func (r *applicationRepository) CreateApplication(executor SQLExecutor, app *models.Application) (int64, error) {
	query := `INSERT INTO applications (customer_id, status, requested_tier,
	            reason_for_application, investment_experience, expected_monthly_investment, net_worth_range,
	            preferred_contact_method, phone, submitted_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id`

	currentTime := time.Now()
	app.SubmittedAt = currentTime
	app.CreatedAt = currentTime
	app.UpdatedAt = currentTime
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}

	err := executor.QueryRow(query,
		app.CustomerID, app.Status, app.RequestedTier,
		app.ReasonForApplication, app.InvestmentExperience, app.ExpectedMonthlyInvestment, app.NetWorthRange,
		app.ContactMethod, app.Phone, app.SubmittedAt, app.CreatedAt, app.UpdatedAt,
	).Scan(&app.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating application: %v", ErrDatabaseError, err)
	}
	return app.ID, nil
}

// GetApplicationByID retrieves an application by its ID.
func (r *applicationRepository) GetApplicationByID(id int64) (*models.Application, error) {
	app := &models.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	err := scanApplication(r.db.QueryRow(query, id), app)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting application by ID %d: %v", ErrDatabaseError, id, err)
	}
	return app, nil
}

// GetLatestApplicationByCustomerID retrieves the customer's most recent
// application regardless of status.
func (r *applicationRepository) GetLatestApplicationByCustomerID(customerID int64) (*models.Application, error) {
	app := &models.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE customer_id = $1 ORDER BY submitted_at DESC LIMIT 1`

	err := scanApplication(r.db.QueryRow(query, customerID), app)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting latest application for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return app, nil
}

// GetOpenApplicationByCustomerID retrieves the customer's non-terminal
// application, if one exists.
func (r *applicationRepository) GetOpenApplicationByCustomerID(customerID int64) (*models.Application, error) {
	app := &models.Application{}
	query := `SELECT ` + applicationColumns + ` FROM applications
	          WHERE customer_id = $1 AND status = ANY($2)
	          ORDER BY submitted_at DESC LIMIT 1`

	err := scanApplication(r.db.QueryRow(query, customerID, pq.Array(models.NonTerminalApplicationStatuses)), app)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting open application for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return app, nil
}

// GetApplications retrieves applications with pagination and an optional
// status filter, most recently submitted first.
func (r *applicationRepository) GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error) {
	apps := []models.Application{}
	totalCount := 0

	query := `SELECT ` + applicationColumns + `, COUNT(*) OVER() as total_count FROM applications`
	var args []interface{}
	argCount := 1

	if statusFilter != nil && *statusFilter != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argCount)
		args = append(args, *statusFilter)
		argCount++
	}
	query += " ORDER BY submitted_at DESC"

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
		return nil, 0, fmt.Errorf("%w: querying applications: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var app models.Application
		var reviewerID sql.NullInt64
		var reviewedAt sql.NullTime
		if err := rows.Scan(
			&app.ID, &app.CustomerID, &app.Status, &app.RequestedTier,
			&app.ReasonForApplication, &app.InvestmentExperience, &app.ExpectedMonthlyInvestment, &app.NetWorthRange,
			&app.ContactMethod, &app.Phone,
			&reviewerID, &app.AdminNotes, &app.RejectionReason,
			&app.SubmittedAt, &reviewedAt, &app.CreatedAt, &app.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning application: %v", ErrDatabaseError, err)
		}
		if reviewerID.Valid {
			app.AssignedReviewerID = &reviewerID.Int64
		}
		if reviewedAt.Valid {
			app.ReviewedAt = &reviewedAt.Time
		}
		apps = append(apps, app)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating application rows: %v", ErrDatabaseError, err)
	}
	return apps, totalCount, nil
}

// UpdateApplication updates the review-mutable fields of an application.
func (r *applicationRepository) UpdateApplication(executor SQLExecutor, app *models.Application) error {
	query := `UPDATE applications SET
	            status = $1, assigned_reviewer_id = $2, admin_notes = $3, rejection_reason = $4,
	            reviewed_at = $5, updated_at = $6
	          WHERE id = $7`

	app.UpdatedAt = time.Now()
	var reviewerID sql.NullInt64
	if app.AssignedReviewerID != nil {
		reviewerID = sql.NullInt64{Int64: *app.AssignedReviewerID, Valid: true}
	}
	var reviewedAt sql.NullTime
	if app.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *app.ReviewedAt, Valid: true}
	}

	result, err := executor.Exec(query,
		app.Status, reviewerID, app.AdminNotes, app.RejectionReason,
		reviewedAt, app.UpdatedAt, app.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating application ID %d: %v", ErrDatabaseError, app.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for application ID %d: %v", ErrDatabaseError, app.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
