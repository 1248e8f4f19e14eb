package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// BenefitRepository defines the interface for the benefit registry.
type BenefitRepository interface {
	CreateBenefit(executor SQLExecutor, benefit *models.Benefit) (int64, error)
	GetBenefitByID(id int64) (*models.Benefit, error)
	GetActiveBenefits() ([]models.Benefit, error)
	GetActiveBenefitsForTier(tier string) ([]models.Benefit, error)
	CountBenefits() (int, error)
}

type benefitRepository struct {
	db *sql.DB
}

// NewBenefitRepository creates a new instance of BenefitRepository.
func NewBenefitRepository(db *sql.DB) BenefitRepository {
	return &benefitRepository{db: db}
}

const benefitColumns = `id, name, description, membership_tiers, icon, is_active, created_at`

// CreateBenefit inserts a new benefit into the registry.
func (r *benefitRepository) CreateBenefit(executor SQLExecutor, benefit *models.Benefit) (int64, error) {
	query := `INSERT INTO benefits (name, description, membership_tiers, icon, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	benefit.CreatedAt = time.Now()
	if benefit.Icon == "" {
		benefit.Icon = "fas fa-star"
	}

	err := executor.QueryRow(query,
		benefit.Name, benefit.Description, benefit.MembershipTiers, benefit.Icon,
		benefit.IsActive, benefit.CreatedAt,
	).Scan(&benefit.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating benefit: %v", ErrDatabaseError, err)
	}
	return benefit.ID, nil
}

// GetBenefitByID retrieves a benefit by its ID.
func (r *benefitRepository) GetBenefitByID(id int64) (*models.Benefit, error) {
	benefit := &models.Benefit{}
	query := `SELECT ` + benefitColumns + ` FROM benefits WHERE id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&benefit.ID, &benefit.Name, &benefit.Description, &benefit.MembershipTiers,
		&benefit.Icon, &benefit.IsActive, &benefit.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting benefit by ID %d: %v", ErrDatabaseError, id, err)
	}
	return benefit, nil
}

// GetActiveBenefits retrieves all active benefits ordered by name.
func (r *benefitRepository) GetActiveBenefits() ([]models.Benefit, error) {
	query := `SELECT ` + benefitColumns + ` FROM benefits WHERE is_active = TRUE ORDER BY name ASC`
	return r.queryBenefits(query)
}

// GetActiveBenefitsForTier retrieves the active benefits whose tier set
// contains the given tier, ordered by name. The membership test splits the
// stored comma-joined list and compares whole elements, so "gold" never
// matches a hypothetical "goldplus".
func (r *benefitRepository) GetActiveBenefitsForTier(tier string) ([]models.Benefit, error) {
	query := `SELECT ` + benefitColumns + ` FROM benefits
	          WHERE is_active = TRUE
	            AND $1 = ANY(string_to_array(membership_tiers, ','))
	          ORDER BY name ASC`
	return r.queryBenefits(query, tier)
}

func (r *benefitRepository) queryBenefits(query string, args ...interface{}) ([]models.Benefit, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying benefits: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	benefits := []models.Benefit{}
	for rows.Next() {
		var b models.Benefit
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Description, &b.MembershipTiers,
			&b.Icon, &b.IsActive, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning benefit: %v", ErrDatabaseError, err)
		}
		benefits = append(benefits, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating benefit rows: %v", ErrDatabaseError, err)
	}
	return benefits, nil
}

// CountBenefits returns the total number of benefit rows. Used by the
// startup seeding check.
func (r *benefitRepository) CountBenefits() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM benefits`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting benefits: %v", ErrDatabaseError, err)
	}
	return count, nil
}
