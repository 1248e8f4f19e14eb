package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

// --- Custom Service Errors for Applications ---
var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrApplicationValidation   = errors.New("application data validation error")
	ErrOpenApplicationExists   = errors.New("an open application already exists for this customer")
	ErrAlreadyVIPMember        = errors.New("customer already has an active VIP membership")
	ErrInvalidStatusTransition = errors.New("invalid application status transition")
	ErrReviewerNotFound        = errors.New("assigned reviewer not found or inactive")
)

// MinMonthlyInvestment is the smallest expected monthly investment an
// application may declare.
const MinMonthlyInvestment = 100.00

const (
	minReasonLength     = 50
	minExperienceLength = 30
)

// legalTransitions maps each application status to the statuses it may move
// to. Approved and rejected have no outgoing edges: they are terminal.
// An application waiting on additional information resumes review once the
// customer responds, or gets rejected; it cannot be approved without passing
// through review again.
var legalTransitions = map[string][]string{
	models.ApplicationStatusPending: {
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusRequiresInfo,
	},
	models.ApplicationStatusUnderReview: {
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusRequiresInfo,
	},
	models.ApplicationStatusRequiresInfo: {
		models.ApplicationStatusUnderReview,
		models.ApplicationStatusRejected,
	},
	models.ApplicationStatusApproved: {},
	models.ApplicationStatusRejected: {},
}

func transitionAllowed(from, to string) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// --- Application DTOs ---

type SubmitApplicationRequest struct {
	RequestedTier             string  `json:"requested_tier" binding:"required"`
	ReasonForApplication      string  `json:"reason_for_application" binding:"required"`
	InvestmentExperience      string  `json:"investment_experience" binding:"required"`
	ExpectedMonthlyInvestment float64 `json:"expected_monthly_investment" binding:"required"`
	NetWorthRange             string  `json:"net_worth_range" binding:"required"`
	ContactMethod             string  `json:"preferred_contact_method"`
	Phone                     *string `json:"phone"`
}

type TransitionApplicationRequest struct {
	NewStatus       string  `json:"new_status" binding:"required"`
	ReviewerID      *int64  `json:"reviewer_id"`
	AdminNotes      *string `json:"admin_notes"`
	RejectionReason *string `json:"rejection_reason"`
}

// BatchTransitionResult reports the outcome of a batch approve/reject: how
// many records transitioned and how many were skipped because they were
// already terminal or otherwise ineligible. Batches never abort part-way.
type BatchTransitionResult struct {
	Processed int     `json:"processed"`
	Skipped   int     `json:"skipped"`
	FailedIDs []int64 `json:"failed_ids,omitempty"`
}

// --- ApplicationService Interface ---

type ApplicationService interface {
	SubmitApplication(customerID int64, req SubmitApplicationRequest) (*models.Application, error)
	Transition(applicationID int64, req TransitionApplicationRequest) (*models.Application, error)
	ApproveApplications(applicationIDs []int64, reviewerID *int64) (*BatchTransitionResult, error)
	RejectApplications(applicationIDs []int64, reviewerID *int64, rejectionReason *string) (*BatchTransitionResult, error)
	AssignReviewer(applicationID, reviewerID int64) (*models.Application, error)
	GetApplicationByID(applicationID int64) (*models.Application, error)
	GetApplicationStatus(customerID int64) (*models.Application, error)
	GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error)
}

// --- applicationService Implementation ---

type applicationService struct {
	applicationRepo repositories.ApplicationRepository
	memberRepo      repositories.MemberRepository
	staffRepo       repositories.StaffRepository
	memberService   MemberService
	db              *sql.DB
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(
	ar repositories.ApplicationRepository,
	mr repositories.MemberRepository,
	sr repositories.StaffRepository,
	ms MemberService,
	db *sql.DB,
) ApplicationService {
	return &applicationService{
		applicationRepo: ar,
		memberRepo:      mr,
		staffRepo:       sr,
		memberService:   ms,
		db:              db,
	}
}

func (s *applicationService) validateSubmission(req SubmitApplicationRequest) error {
	if !models.IsValidTier(req.RequestedTier) {
		return fmt.Errorf("%w: unknown membership tier '%s'", ErrApplicationValidation, req.RequestedTier)
	}
	if len(strings.TrimSpace(req.ReasonForApplication)) < minReasonLength {
		return fmt.Errorf("%w: reason for application must be at least %d characters", ErrApplicationValidation, minReasonLength)
	}
	if len(strings.TrimSpace(req.InvestmentExperience)) < minExperienceLength {
		return fmt.Errorf("%w: investment experience must be at least %d characters", ErrApplicationValidation, minExperienceLength)
	}
	if req.ExpectedMonthlyInvestment < MinMonthlyInvestment {
		return fmt.Errorf("%w: minimum expected monthly investment is %.2f", ErrApplicationValidation, MinMonthlyInvestment)
	}
	if !models.IsValidNetWorthBracket(req.NetWorthRange) {
		return fmt.Errorf("%w: net worth range must be one of the listed brackets", ErrApplicationValidation)
	}
	if req.ContactMethod != "" && !models.IsValidContactMethod(req.ContactMethod) {
		return fmt.Errorf("%w: preferred contact method must be email, phone or both", ErrApplicationValidation)
	}
	return nil
}

// SubmitApplication validates and persists a new application in pending
// status. The existence checks here are a fast-path courtesy; the partial
// unique index on open applications is what actually prevents two concurrent
// submissions from both landing.
func (s *applicationService) SubmitApplication(customerID int64, req SubmitApplicationRequest) (*models.Application, error) {
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}

	member, err := s.memberRepo.GetMemberByCustomerID(customerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if member != nil && member.Status == models.MemberStatusActive {
		return nil, ErrAlreadyVIPMember
	}

	if _, err := s.applicationRepo.GetOpenApplicationByCustomerID(customerID); err == nil {
		return nil, ErrOpenApplicationExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check open applications: %w", err)
	}

	contactMethod := req.ContactMethod
	if contactMethod == "" {
		contactMethod = models.ContactMethodEmail
	}

	app := &models.Application{
		CustomerID:                customerID,
		Status:                    models.ApplicationStatusPending,
		RequestedTier:             req.RequestedTier,
		ReasonForApplication:      strings.TrimSpace(req.ReasonForApplication),
		InvestmentExperience:      strings.TrimSpace(req.InvestmentExperience),
		ExpectedMonthlyInvestment: req.ExpectedMonthlyInvestment,
		NetWorthRange:             req.NetWorthRange,
		ContactMethod:             contactMethod,
		Phone:                     req.Phone,
	}

	id, err := s.applicationRepo.CreateApplication(s.db, app)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost the race against a concurrent submission: the partial
			// unique index rejected the second open application.
			return nil, ErrOpenApplicationExists
		}
		return nil, fmt.Errorf("failed to create application in repository: %w", err)
	}
	return s.applicationRepo.GetApplicationByID(id)
}

// Transition moves an application to a new review status. Transitions into
// approved or rejected are terminal and set the review timestamp exactly
// once. Approval additionally creates or updates the member profile and
// emits the welcome notification inside the same transaction.
func (s *applicationService) Transition(applicationID int64, req TransitionApplicationRequest) (*models.Application, error) {
	app, err := s.applicationRepo.GetApplicationByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application for transition: %w", err)
	}

	if !models.IsValidApplicationStatus(req.NewStatus) {
		return nil, fmt.Errorf("%w: unknown status '%s'", ErrApplicationValidation, req.NewStatus)
	}
	if !transitionAllowed(app.Status, req.NewStatus) {
		return nil, fmt.Errorf("%w: cannot move application from '%s' to '%s'", ErrInvalidStatusTransition, app.Status, req.NewStatus)
	}

	if req.ReviewerID != nil {
		if err := s.checkReviewer(*req.ReviewerID); err != nil {
			return nil, err
		}
		app.AssignedReviewerID = req.ReviewerID
	}
	if req.AdminNotes != nil {
		app.AdminNotes = req.AdminNotes
	}
	if req.RejectionReason != nil {
		app.RejectionReason = req.RejectionReason
	}

	app.Status = req.NewStatus
	if models.IsTerminalApplicationStatus(req.NewStatus) && app.ReviewedAt == nil {
		now := time.Now()
		app.ReviewedAt = &now
	}

	if req.NewStatus != models.ApplicationStatusApproved {
		if err := s.applicationRepo.UpdateApplication(s.db, app); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrApplicationNotFound
			}
			return nil, fmt.Errorf("failed to update application in repository: %w", err)
		}
		return s.applicationRepo.GetApplicationByID(app.ID)
	}

	// Approval writes the application, the member profile and the welcome
	// notification atomically.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin approval transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.applicationRepo.UpdateApplication(tx, app); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to update application in repository: %w", err)
	}

	member, _, err := s.memberService.GetOrCreateFromApplication(tx, app)
	if err != nil {
		return nil, fmt.Errorf("failed to promote application %d into member: %w", app.ID, err)
	}
	if err := s.memberService.SendWelcomeNotification(tx, member, app.RequestedTier); err != nil {
		return nil, fmt.Errorf("failed to create welcome notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval transaction: %w", err)
	}
	return s.applicationRepo.GetApplicationByID(app.ID)
}

func (s *applicationService) checkReviewer(reviewerID int64) error {
	staff, err := s.staffRepo.GetStaffMemberByID(reviewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReviewerNotFound
		}
		return fmt.Errorf("failed to look up reviewer: %w", err)
	}
	if !staff.IsActive {
		return ErrReviewerNotFound
	}
	return nil
}

// batchTransition applies a single-record transition to each application,
// isolating failures per record. Records already terminal (or otherwise
// ineligible) are counted as skipped, never surfaced as batch errors.
func (s *applicationService) batchTransition(applicationIDs []int64, req TransitionApplicationRequest) (*BatchTransitionResult, error) {
	result := &BatchTransitionResult{}
	for _, id := range applicationIDs {
		_, err := s.Transition(id, req)
		switch {
		case err == nil:
			result.Processed++
		case errors.Is(err, ErrInvalidStatusTransition), errors.Is(err, ErrApplicationNotFound):
			result.Skipped++
		default:
			result.Skipped++
			result.FailedIDs = append(result.FailedIDs, id)
		}
	}
	return result, nil
}

// ApproveApplications approves every eligible application in the batch.
func (s *applicationService) ApproveApplications(applicationIDs []int64, reviewerID *int64) (*BatchTransitionResult, error) {
	return s.batchTransition(applicationIDs, TransitionApplicationRequest{
		NewStatus:  models.ApplicationStatusApproved,
		ReviewerID: reviewerID,
	})
}

// RejectApplications rejects every eligible application in the batch.
func (s *applicationService) RejectApplications(applicationIDs []int64, reviewerID *int64, rejectionReason *string) (*BatchTransitionResult, error) {
	return s.batchTransition(applicationIDs, TransitionApplicationRequest{
		NewStatus:       models.ApplicationStatusRejected,
		ReviewerID:      reviewerID,
		RejectionReason: rejectionReason,
	})
}

// AssignReviewer sets the reviewing staff member without changing status.
func (s *applicationService) AssignReviewer(applicationID, reviewerID int64) (*models.Application, error) {
	app, err := s.applicationRepo.GetApplicationByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application for reviewer assignment: %w", err)
	}
	if models.IsTerminalApplicationStatus(app.Status) {
		return nil, fmt.Errorf("%w: application %d is already '%s'", ErrInvalidStatusTransition, app.ID, app.Status)
	}
	if err := s.checkReviewer(reviewerID); err != nil {
		return nil, err
	}

	app.AssignedReviewerID = &reviewerID
	if err := s.applicationRepo.UpdateApplication(s.db, app); err != nil {
		return nil, fmt.Errorf("failed to assign reviewer: %w", err)
	}
	return s.applicationRepo.GetApplicationByID(app.ID)
}

func (s *applicationService) GetApplicationByID(applicationID int64) (*models.Application, error) {
	app, err := s.applicationRepo.GetApplicationByID(applicationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application by ID: %w", err)
	}
	return app, nil
}

// GetApplicationStatus returns the customer's most recent application.
func (s *applicationService) GetApplicationStatus(customerID int64) (*models.Application, error) {
	app, err := s.applicationRepo.GetLatestApplicationByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application status: %w", err)
	}
	return app, nil
}

func (s *applicationService) GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if statusFilter != nil && *statusFilter != "" && !models.IsValidApplicationStatus(*statusFilter) {
		return nil, 0, fmt.Errorf("%w: unknown status filter '%s'", ErrApplicationValidation, *statusFilter)
	}
	apps, totalCount, err := s.applicationRepo.GetApplications(page, pageSize, statusFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get applications: %w", err)
	}
	return apps, totalCount, nil
}
