package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"mal_vip_backend/internal/models"
)

// PortfolioRepository reads the aggregate investment figures maintained by
// the investment subsystem. This service never writes to that table.
type PortfolioRepository interface {
	GetPortfolioByCustomerID(customerID int64) (*models.InvestmentPortfolio, error)
}

type portfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new instance of PortfolioRepository.
func NewPortfolioRepository(db *sql.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

// GetPortfolioByCustomerID retrieves the customer's portfolio snapshot.
func (r *portfolioRepository) GetPortfolioByCustomerID(customerID int64) (*models.InvestmentPortfolio, error) {
	p := &models.InvestmentPortfolio{}
	query := `SELECT id, customer_id, total_invested, current_value, total_return, total_return_percentage,
	                 active_investments_count, updated_at
	          FROM investment_portfolios WHERE customer_id = $1`

	err := r.db.QueryRow(query, customerID).Scan(
		&p.ID, &p.CustomerID, &p.TotalInvested, &p.CurrentValue, &p.TotalReturn,
		&p.TotalReturnPercentage, &p.ActiveInvestmentsCount, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting portfolio for customer %d: %v", ErrDatabaseError, customerID, err)
	}
	return p, nil
}
