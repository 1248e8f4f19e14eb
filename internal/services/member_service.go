package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

// --- Custom Service Errors for Members ---
var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrMemberNotActive       = errors.New("membership is not active")
	ErrMemberValidation      = errors.New("member data validation error")
	ErrStaffForMemberMissing = errors.New("staff member to assign not found or inactive")
)

// --- Member DTOs ---

type UpdateMemberRequest struct {
	Phone           *string `json:"phone"`
	ContactMethod   *string `json:"preferred_contact_method"`
	AssignedStaffID *int64  `json:"assigned_staff_id"`
	Notes           *string `json:"notes"`
	LastContactDate *string `json:"last_contact_date"` // Format RFC3339
}

// DashboardData aggregates everything the member dashboard renders in one
// request: profile, assigned staff, portfolio figures from the investment
// subsystem, recent history and the benefits applicable to the member's tier.
type DashboardData struct {
	Member              *models.Member             `json:"member"`
	AssignedStaff       *models.StaffMember        `json:"assigned_staff,omitempty"`
	Portfolio           models.InvestmentPortfolio `json:"portfolio"`
	RecentActivities    []models.Activity          `json:"recent_activities"`
	UnreadNotifications []models.Notification      `json:"unread_notifications"`
	ApplicableBenefits  []models.Benefit           `json:"applicable_benefits"`
}

// ProfileData is the member profile page payload: full history instead of
// the dashboard's recent slices.
type ProfileData struct {
	Member           *models.Member        `json:"member"`
	AssignedStaff    *models.StaffMember   `json:"assigned_staff,omitempty"`
	AllActivities    []models.Activity     `json:"all_activities"`
	AllNotifications []models.Notification `json:"all_notifications"`
}

// --- MemberService Interface ---

type MemberService interface {
	// GetOrCreateFromApplication promotes an approved application into a
	// member profile. It is idempotent per customer: an existing member is
	// updated in place rather than duplicated. The boolean reports whether
	// a new member was created.
	GetOrCreateFromApplication(executor repositories.SQLExecutor, app *models.Application) (*models.Member, bool, error)
	SendWelcomeNotification(executor repositories.SQLExecutor, member *models.Member, tier string) error

	GetMemberByID(memberID int64) (*models.Member, error)
	GetMemberByCustomerID(customerID int64) (*models.Member, error)
	GetMembers(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error)
	UpdateMember(memberID int64, req UpdateMemberRequest) (*models.Member, error)
	SetStatus(memberID int64, newStatus string) (*models.Member, error)
	AssignTier(memberIDs []int64, tier string) (updated, skipped int, err error)
	ResolveBenefits(member *models.Member) ([]models.Benefit, error)

	GetDashboard(customerID int64) (*DashboardData, error)
	GetProfile(customerID int64) (*ProfileData, error)
}

// --- memberService Implementation ---

type memberService struct {
	memberRepo       repositories.MemberRepository
	staffRepo        repositories.StaffRepository
	benefitRepo      repositories.BenefitRepository
	activityRepo     repositories.ActivityRepository
	notificationRepo repositories.NotificationRepository
	portfolioRepo    repositories.PortfolioRepository
	db               *sql.DB
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(
	mr repositories.MemberRepository,
	sr repositories.StaffRepository,
	br repositories.BenefitRepository,
	ar repositories.ActivityRepository,
	nr repositories.NotificationRepository,
	pr repositories.PortfolioRepository,
	db *sql.DB,
) MemberService {
	return &memberService{
		memberRepo:       mr,
		staffRepo:        sr,
		benefitRepo:      br,
		activityRepo:     ar,
		notificationRepo: nr,
		portfolioRepo:    pr,
		db:               db,
	}
}

// recordMutation appends the single activity entry every member-mutating
// operation owes. The call is explicit rather than hidden behind a save hook
// so the side effect is visible in this service's contract.
func (s *memberService) recordMutation(executor repositories.SQLExecutor, member *models.Member, created bool, description string) error {
	title := "VIP Profile Updated"
	if created {
		title = "VIP Membership Created"
	}
	_, err := s.activityRepo.CreateActivity(executor, &models.Activity{
		MemberID:     member.ID,
		ActivityType: models.ActivityTypeOther,
		Title:        title,
		Description:  description,
	})
	return err
}

// truncate cuts s to at most max characters, never splitting a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// GetOrCreateFromApplication implements the approval promotion path.
func (s *memberService) GetOrCreateFromApplication(executor repositories.SQLExecutor, app *models.Application) (*models.Member, bool, error) {
	flags := models.BenefitFlagsForTier(app.RequestedTier)

	existing, err := s.memberRepo.GetMemberByCustomerID(app.CustomerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up member for customer %d: %w", app.CustomerID, err)
	}

	if existing != nil {
		existing.MembershipTier = app.RequestedTier
		existing.Status = models.MemberStatusActive
		existing.AssignedStaffID = app.AssignedReviewerID
		existing.Phone = app.Phone
		existing.ContactMethod = app.ContactMethod
		existing.BenefitFlags = flags
		existing.TotalInvestments = app.ExpectedMonthlyInvestment
		existing.MonthlyIncome = app.ExpectedMonthlyInvestment
		existing.NetWorth = app.ExpectedMonthlyInvestment * 12 // Estimate

		if err := s.memberRepo.UpdateMember(executor, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update existing member: %w", err)
		}
		desc := fmt.Sprintf("Membership renewed at %s tier from approved application", models.TierLabel(app.RequestedTier))
		if err := s.recordMutation(executor, existing, false, desc); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	notes := "Approved from application - " + truncate(app.ReasonForApplication, 100)
	member := &models.Member{
		CustomerID:       app.CustomerID,
		MemberCode:       models.MemberCodeFor(app.CustomerID),
		AssignedStaffID:  app.AssignedReviewerID,
		MembershipTier:   app.RequestedTier,
		Status:           models.MemberStatusActive,
		Phone:            app.Phone,
		ContactMethod:    app.ContactMethod,
		BenefitFlags:     flags,
		TotalInvestments: app.ExpectedMonthlyInvestment,
		MonthlyIncome:    app.ExpectedMonthlyInvestment,
		NetWorth:         app.ExpectedMonthlyInvestment * 12, // Estimate
		Notes:            &notes,
	}

	// A concurrent promotion of the same customer hits the unique
	// constraint on customer_id. The violation aborts the surrounding
	// approval transaction, so it surfaces to the caller as a conflict
	// instead of being swallowed here.
	if _, err := s.memberRepo.CreateMember(executor, member); err != nil {
		return nil, false, fmt.Errorf("failed to create member: %w", err)
	}

	desc := fmt.Sprintf("VIP membership created with %s tier", models.TierLabel(app.RequestedTier))
	if err := s.recordMutation(executor, member, true, desc); err != nil {
		return nil, false, err
	}
	return member, true, nil
}

// SendWelcomeNotification creates the success-type notification emitted on
// approval. At most one welcome is sent per member: re-approvals of a
// customer who already holds a profile do not pile up duplicates.
func (s *memberService) SendWelcomeNotification(executor repositories.SQLExecutor, member *models.Member, tier string) error {
	count, err := s.notificationRepo.CountWelcomeNotifications(member.ID)
	if err != nil {
		return fmt.Errorf("failed to check for existing welcome notification: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = s.notificationRepo.CreateNotification(executor, &models.Notification{
		MemberID:         member.ID,
		Title:            "VIP Membership Approved!",
		Message:          fmt.Sprintf("Congratulations! Your %s membership has been approved. Welcome to VIP status!", models.TierLabel(tier)),
		NotificationType: models.NotificationTypeSuccess,
	})
	return err
}

func (s *memberService) GetMemberByID(memberID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	return member, nil
}

func (s *memberService) GetMemberByCustomerID(customerID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by customer ID: %w", err)
	}
	return member, nil
}

func (s *memberService) GetMembers(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if statusFilter != nil && *statusFilter != "" && !models.IsValidMemberStatus(*statusFilter) {
		return nil, 0, fmt.Errorf("%w: unknown status filter '%s'", ErrMemberValidation, *statusFilter)
	}
	if tierFilter != nil && *tierFilter != "" && !models.IsValidTier(*tierFilter) {
		return nil, 0, fmt.Errorf("%w: unknown tier filter '%s'", ErrMemberValidation, *tierFilter)
	}
	members, totalCount, err := s.memberRepo.GetMembers(page, pageSize, statusFilter, tierFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get members: %w", err)
	}
	return members, totalCount, nil
}

// UpdateMember applies staff edits to a member profile and records the
// mutation in the activity log.
func (s *memberService) UpdateMember(memberID int64, req UpdateMemberRequest) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member for update: %w", err)
	}

	if req.Phone != nil {
		member.Phone = req.Phone
	}
	if req.ContactMethod != nil {
		if !models.IsValidContactMethod(*req.ContactMethod) {
			return nil, fmt.Errorf("%w: preferred contact method must be email, phone or both", ErrMemberValidation)
		}
		member.ContactMethod = *req.ContactMethod
	}
	if req.AssignedStaffID != nil {
		staff, err := s.staffRepo.GetStaffMemberByID(*req.AssignedStaffID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrStaffForMemberMissing
			}
			return nil, fmt.Errorf("failed to look up staff for assignment: %w", err)
		}
		if !staff.IsActive {
			return nil, ErrStaffForMemberMissing
		}
		member.AssignedStaffID = req.AssignedStaffID
	}
	if req.Notes != nil {
		member.Notes = req.Notes
	}
	if req.LastContactDate != nil {
		lastContact, parseErr := time.Parse(time.RFC3339, *req.LastContactDate)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: last_contact_date must be RFC3339", ErrMemberValidation)
		}
		member.LastContactDate = &lastContact
	}

	if err := s.memberRepo.UpdateMember(s.db, member); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member in repository: %w", err)
	}
	if err := s.recordMutation(s.db, member, false, "VIP profile information updated"); err != nil {
		return nil, err
	}
	return s.memberRepo.GetMemberByID(memberID)
}

// SetStatus sets the member status directly. Unlike application review,
// member status is not a state machine: any status may follow any other,
// administrative tooling relies on that.
func (s *memberService) SetStatus(memberID int64, newStatus string) (*models.Member, error) {
	if !models.IsValidMemberStatus(newStatus) {
		return nil, fmt.Errorf("%w: unknown member status '%s'", ErrMemberValidation, newStatus)
	}
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member for status change: %w", err)
	}

	previous := member.Status
	if err := s.memberRepo.UpdateMemberStatus(s.db, memberID, newStatus); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member status: %w", err)
	}
	desc := fmt.Sprintf("Membership status changed from %s to %s", previous, newStatus)
	if err := s.recordMutation(s.db, member, false, desc); err != nil {
		return nil, err
	}
	return s.memberRepo.GetMemberByID(memberID)
}

// AssignTier applies a tier to each member in the batch, skipping unknown
// members. Mirrors the per-tier bulk actions available to administrators.
func (s *memberService) AssignTier(memberIDs []int64, tier string) (int, int, error) {
	if !models.IsValidTier(tier) {
		return 0, 0, fmt.Errorf("%w: unknown membership tier '%s'", ErrMemberValidation, tier)
	}

	updated, skipped := 0, 0
	for _, id := range memberIDs {
		member, err := s.memberRepo.GetMemberByID(id)
		if err != nil {
			skipped++
			continue
		}
		if err := s.memberRepo.UpdateMemberTier(s.db, id, tier); err != nil {
			skipped++
			continue
		}
		desc := fmt.Sprintf("Membership tier changed from %s to %s", member.MembershipTier, tier)
		if err := s.recordMutation(s.db, member, false, desc); err != nil {
			return updated, skipped, err
		}
		updated++
	}
	return updated, skipped, nil
}

// ResolveBenefits returns the active benefits applicable to the member's
// current tier, ordered by name. Pure read, no side effects.
func (s *memberService) ResolveBenefits(member *models.Member) ([]models.Benefit, error) {
	benefits, err := s.benefitRepo.GetActiveBenefitsForTier(member.MembershipTier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve benefits for tier %s: %w", member.MembershipTier, err)
	}
	return benefits, nil
}

// GetDashboard assembles the dashboard for an active member and logs the
// access as a login activity. Customers whose membership is not active get
// ErrMemberNotActive so the handler can route them to the application
// status page instead.
func (s *memberService) GetDashboard(customerID int64) (*DashboardData, error) {
	member, err := s.GetMemberByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if member.Status != models.MemberStatusActive {
		return nil, ErrMemberNotActive
	}

	data := &DashboardData{Member: member}

	if member.AssignedStaffID != nil {
		staff, err := s.staffRepo.GetStaffMemberByID(*member.AssignedStaffID)
		if err == nil {
			data.AssignedStaff = staff
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load assigned staff: %w", err)
		}
	}

	portfolio, err := s.portfolioRepo.GetPortfolioByCustomerID(customerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	if portfolio != nil {
		data.Portfolio = *portfolio
	}

	if data.RecentActivities, err = s.activityRepo.GetActivitiesByMemberID(member.ID, 5); err != nil {
		return nil, fmt.Errorf("failed to load recent activities: %w", err)
	}
	if data.UnreadNotifications, err = s.notificationRepo.GetNotificationsByMemberID(member.ID, true, 5); err != nil {
		return nil, fmt.Errorf("failed to load unread notifications: %w", err)
	}
	if data.ApplicableBenefits, err = s.ResolveBenefits(member); err != nil {
		return nil, err
	}

	_, err = s.activityRepo.CreateActivity(s.db, &models.Activity{
		MemberID:     member.ID,
		ActivityType: models.ActivityTypeLogin,
		Title:        "Dashboard Access",
		Description:  fmt.Sprintf("Accessed VIP dashboard at %s", time.Now().Format("2006-01-02 15:04:05")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log dashboard access: %w", err)
	}

	return data, nil
}

// GetProfile assembles the full-history profile page for a member.
func (s *memberService) GetProfile(customerID int64) (*ProfileData, error) {
	member, err := s.GetMemberByCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	data := &ProfileData{Member: member}
	if member.AssignedStaffID != nil {
		staff, err := s.staffRepo.GetStaffMemberByID(*member.AssignedStaffID)
		if err == nil {
			data.AssignedStaff = staff
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to load assigned staff: %w", err)
		}
	}
	if data.AllActivities, err = s.activityRepo.GetActivitiesByMemberID(member.ID, 0); err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	if data.AllNotifications, err = s.notificationRepo.GetNotificationsByMemberID(member.ID, false, 0); err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return data, nil
}
