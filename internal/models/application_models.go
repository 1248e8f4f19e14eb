package models

import "time"

// Application statuses. Approved and rejected are terminal: once reached,
// no further transitions are permitted.
const (
	ApplicationStatusPending      = "pending"
	ApplicationStatusUnderReview  = "under_review"
	ApplicationStatusApproved     = "approved"
	ApplicationStatusRejected     = "rejected"
	ApplicationStatusRequiresInfo = "requires_info"
)

// NetWorthBrackets is the fixed enumeration an applicant must choose from.
var NetWorthBrackets = []string{
	"Under $50,000",
	"$50,000 - $100,000",
	"$100,000 - $250,000",
	"$250,000 - $500,000",
	"$500,000 - $1,000,000",
	"$1,000,000 - $5,000,000",
	"Over $5,000,000",
}

// Application is a customer's request to obtain VIP membership, reviewed by
// staff. At most one non-terminal application may exist per customer; the
// database enforces this with a partial unique index.
type Application struct {
	ID            int64  `json:"id" db:"id"`
	CustomerID    int64  `json:"customer_id" db:"customer_id"`
	Status        string `json:"status" db:"status"`
	RequestedTier string `json:"requested_tier" db:"requested_tier"`

	ReasonForApplication      string  `json:"reason_for_application" db:"reason_for_application"`
	InvestmentExperience      string  `json:"investment_experience" db:"investment_experience"`
	ExpectedMonthlyInvestment float64 `json:"expected_monthly_investment" db:"expected_monthly_investment"`
	NetWorthRange             string  `json:"net_worth_range" db:"net_worth_range"`

	ContactMethod string  `json:"preferred_contact_method" db:"preferred_contact_method"`
	Phone         *string `json:"phone,omitempty" db:"phone"`

	AssignedReviewerID *int64  `json:"assigned_reviewer_id,omitempty" db:"assigned_reviewer_id"`
	AdminNotes         *string `json:"admin_notes,omitempty" db:"admin_notes"`
	RejectionReason    *string `json:"rejection_reason,omitempty" db:"rejection_reason"`

	SubmittedAt time.Time  `json:"submitted_at" db:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	AssignedReviewer *StaffMember `json:"assigned_reviewer,omitempty"` // For joining with staff details
}

// IsValidApplicationStatus reports whether s names a known application status.
func IsValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusUnderReview, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusRequiresInfo:
		return true
	}
	return false
}

// IsTerminalApplicationStatus reports whether s is a terminal status.
func IsTerminalApplicationStatus(s string) bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// NonTerminalApplicationStatuses lists the statuses that count as an open
// application when enforcing the one-active-application-per-customer rule.
var NonTerminalApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusUnderReview,
	ApplicationStatusRequiresInfo,
}

// IsValidNetWorthBracket reports whether the bracket is one of the fixed choices.
func IsValidNetWorthBracket(bracket string) bool {
	for _, b := range NetWorthBrackets {
		if b == bracket {
			return true
		}
	}
	return false
}
