package models

import "time"

// InvestmentPortfolio is the read-only aggregate snapshot supplied by the
// investment subsystem. This service consumes it for the dashboard but never
// mutates it.
type InvestmentPortfolio struct {
	ID                     int64     `json:"id" db:"id"`
	CustomerID             int64     `json:"customer_id" db:"customer_id"`
	TotalInvested          float64   `json:"total_invested" db:"total_invested"`
	CurrentValue           float64   `json:"current_value" db:"current_value"`
	TotalReturn            float64   `json:"total_return" db:"total_return"`
	TotalReturnPercentage  float64   `json:"total_return_percentage" db:"total_return_percentage"`
	ActiveInvestmentsCount int       `json:"active_investments_count" db:"active_investments_count"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
