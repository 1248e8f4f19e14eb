package services

import (
	"errors"
	"strings"
	"testing"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func validSubmitRequest() SubmitApplicationRequest {
	return SubmitApplicationRequest{
		RequestedTier:             models.TierGold,
		ReasonForApplication:      strings.Repeat("I want access to exclusive opportunities. ", 3),
		InvestmentExperience:      "Ten years of trading equities and fixed income products.",
		ExpectedMonthlyInvestment: 500.00,
		NetWorthRange:             "$100,000 - $250,000",
		ContactMethod:             models.ContactMethodEmail,
	}
}

func newApplicationServiceForTest(ar *mockApplicationRepo, mr *mockMemberRepo, sr *mockStaffRepo) ApplicationService {
	if ar == nil {
		ar = &mockApplicationRepo{}
	}
	if mr == nil {
		mr = &mockMemberRepo{}
	}
	if sr == nil {
		sr = &mockStaffRepo{}
	}
	ms := NewMemberService(mr, sr, &mockBenefitRepo{}, &mockActivityRepo{}, &mockNotificationRepo{}, &mockPortfolioRepo{}, nil)
	return NewApplicationService(ar, mr, sr, ms, nil)
}

func TestSubmitApplicationValidation(t *testing.T) {
	svc := newApplicationServiceForTest(nil, nil, nil)

	tests := []struct {
		name   string
		mutate func(*SubmitApplicationRequest)
	}{
		{"unknown tier", func(r *SubmitApplicationRequest) { r.RequestedTier = "titanium" }},
		{"reason too short", func(r *SubmitApplicationRequest) { r.ReasonForApplication = "too short" }},
		{"experience too short", func(r *SubmitApplicationRequest) { r.InvestmentExperience = "none" }},
		{"investment below minimum", func(r *SubmitApplicationRequest) { r.ExpectedMonthlyInvestment = 50.00 }},
		{"unknown net worth bracket", func(r *SubmitApplicationRequest) { r.NetWorthRange = "a lot" }},
		{"unknown contact method", func(r *SubmitApplicationRequest) { r.ContactMethod = "pigeon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(&req)
			_, err := svc.SubmitApplication(42, req)
			if !errors.Is(err, ErrApplicationValidation) {
				t.Fatalf("expected ErrApplicationValidation, got %v", err)
			}
		})
	}
}

func TestSubmitApplicationSuccess(t *testing.T) {
	var created *models.Application
	appRepo := &mockApplicationRepo{
		createFn: func(app *models.Application) (int64, error) {
			app.ID = 7
			created = app
			return 7, nil
		},
		getByIDFn: func(id int64) (*models.Application, error) {
			if created == nil || created.ID != id {
				return nil, repositories.ErrNotFound
			}
			return created, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	req := validSubmitRequest()
	req.ContactMethod = ""
	app, err := svc.SubmitApplication(42, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("expected pending status, got %s", app.Status)
	}
	if app.CustomerID != 42 {
		t.Errorf("expected customer ID 42, got %d", app.CustomerID)
	}
	if app.ContactMethod != models.ContactMethodEmail {
		t.Errorf("expected contact method to default to email, got %s", app.ContactMethod)
	}
	if app.ExpectedMonthlyInvestment != 500.00 {
		t.Errorf("expected monthly investment 500.00, got %.2f", app.ExpectedMonthlyInvestment)
	}
}

func TestSubmitApplicationRejectsActiveMember(t *testing.T) {
	memberRepo := &mockMemberRepo{
		getByCustomerFn: func(customerID int64) (*models.Member, error) {
			return &models.Member{ID: 1, CustomerID: customerID, Status: models.MemberStatusActive}, nil
		},
	}
	svc := newApplicationServiceForTest(nil, memberRepo, nil)

	_, err := svc.SubmitApplication(42, validSubmitRequest())
	if !errors.Is(err, ErrAlreadyVIPMember) {
		t.Fatalf("expected ErrAlreadyVIPMember, got %v", err)
	}
}

func TestSubmitApplicationAllowsInactiveMember(t *testing.T) {
	memberRepo := &mockMemberRepo{
		getByCustomerFn: func(customerID int64) (*models.Member, error) {
			return &models.Member{ID: 1, CustomerID: customerID, Status: models.MemberStatusInactive}, nil
		},
	}
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, memberRepo, nil)

	if _, err := svc.SubmitApplication(42, validSubmitRequest()); err != nil {
		t.Fatalf("expected lapsed member to be able to reapply, got %v", err)
	}
}

func TestSubmitApplicationOpenApplicationExists(t *testing.T) {
	appRepo := &mockApplicationRepo{
		getOpenFn: func(customerID int64) (*models.Application, error) {
			return &models.Application{ID: 3, CustomerID: customerID, Status: models.ApplicationStatusPending}, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	_, err := svc.SubmitApplication(42, validSubmitRequest())
	if !errors.Is(err, ErrOpenApplicationExists) {
		t.Fatalf("expected ErrOpenApplicationExists, got %v", err)
	}
}

// Two concurrent submissions can both pass the open-application pre-check.
// The partial unique index rejects the loser, and the service reports that
// as the same open-application conflict.
func TestSubmitApplicationDuplicateConstraintRace(t *testing.T) {
	appRepo := &mockApplicationRepo{
		createFn: func(app *models.Application) (int64, error) {
			return 0, repositories.ErrDuplicateKey
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	_, err := svc.SubmitApplication(42, validSubmitRequest())
	if !errors.Is(err, ErrOpenApplicationExists) {
		t.Fatalf("expected ErrOpenApplicationExists from constraint violation, got %v", err)
	}
}

func TestTransitionIllegalMoves(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"approve twice", models.ApplicationStatusApproved, models.ApplicationStatusApproved},
		{"reject after approve", models.ApplicationStatusApproved, models.ApplicationStatusRejected},
		{"reopen rejected", models.ApplicationStatusRejected, models.ApplicationStatusUnderReview},
		{"approve without re-review", models.ApplicationStatusRequiresInfo, models.ApplicationStatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			appRepo := &mockApplicationRepo{
				getByIDFn: func(id int64) (*models.Application, error) {
					return &models.Application{ID: id, Status: tt.from}, nil
				},
				updateFn: func(app *models.Application) error {
					updated = true
					return nil
				},
			}
			svc := newApplicationServiceForTest(appRepo, nil, nil)

			_, err := svc.Transition(1, TransitionApplicationRequest{NewStatus: tt.to})
			if !errors.Is(err, ErrInvalidStatusTransition) {
				t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
			}
			if updated {
				t.Error("application must not be written on an illegal transition")
			}
		})
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	_, err := svc.Transition(1, TransitionApplicationRequest{NewStatus: "archived"})
	if !errors.Is(err, ErrApplicationValidation) {
		t.Fatalf("expected ErrApplicationValidation, got %v", err)
	}
}

func TestTransitionToRejectedSetsReviewTimestamp(t *testing.T) {
	var written *models.Application
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			if written != nil {
				return written, nil
			}
			return &models.Application{ID: id, Status: models.ApplicationStatusUnderReview}, nil
		},
		updateFn: func(app *models.Application) error {
			written = app
			return nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	reason := "Insufficient investment history"
	app, err := svc.Transition(1, TransitionApplicationRequest{
		NewStatus:       models.ApplicationStatusRejected,
		RejectionReason: &reason,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != models.ApplicationStatusRejected {
		t.Errorf("expected rejected status, got %s", app.Status)
	}
	if app.ReviewedAt == nil {
		t.Error("expected reviewed_at to be set on terminal transition")
	}
	if app.RejectionReason == nil || *app.RejectionReason != reason {
		t.Error("expected rejection reason to be recorded")
	}
}

func TestTransitionToRequiresInfoIsNotTerminal(t *testing.T) {
	var written *models.Application
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			if written != nil {
				return written, nil
			}
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
		updateFn: func(app *models.Application) error {
			written = app
			return nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	app, err := svc.Transition(1, TransitionApplicationRequest{NewStatus: models.ApplicationStatusRequiresInfo})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ReviewedAt != nil {
		t.Error("requires_info must not set the review timestamp")
	}
}

// An application waiting on customer information is not a dead end: review
// resumes once the information arrives, and staff can still reject it, so
// neither side is locked out of the workflow.
func TestTransitionRequiresInfoHasExits(t *testing.T) {
	tests := []struct {
		name string
		to   string
	}{
		{"resume review", models.ApplicationStatusUnderReview},
		{"reject", models.ApplicationStatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var written *models.Application
			appRepo := &mockApplicationRepo{
				getByIDFn: func(id int64) (*models.Application, error) {
					if written != nil {
						return written, nil
					}
					return &models.Application{ID: id, Status: models.ApplicationStatusRequiresInfo}, nil
				},
				updateFn: func(app *models.Application) error {
					written = app
					return nil
				},
			}
			svc := newApplicationServiceForTest(appRepo, nil, nil)

			app, err := svc.Transition(1, TransitionApplicationRequest{NewStatus: tt.to})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if app.Status != tt.to {
				t.Errorf("expected status %s, got %s", tt.to, app.Status)
			}
		})
	}
}

// Approval writes the application, the member profile and the welcome
// notification inside a single committed transaction.
func TestTransitionApprovalCommitsAllWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	var written *models.Application
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			if written != nil {
				return written, nil
			}
			app := approvedApplication()
			app.Status = models.ApplicationStatusPending
			return app, nil
		},
		updateFn: func(app *models.Application) error {
			written = app
			return nil
		},
	}
	var createdMember *models.Member
	memberRepo := &mockMemberRepo{
		createFn: func(m *models.Member) (int64, error) {
			m.ID = 5
			createdMember = m
			return 5, nil
		},
	}
	var notifications []*models.Notification
	notificationRepo := &mockNotificationRepo{
		createFn: func(n *models.Notification) (int64, error) {
			notifications = append(notifications, n)
			return int64(len(notifications)), nil
		},
	}
	ms := NewMemberService(memberRepo, &mockStaffRepo{}, &mockBenefitRepo{}, &mockActivityRepo{}, notificationRepo, &mockPortfolioRepo{}, db)
	svc := NewApplicationService(appRepo, memberRepo, &mockStaffRepo{}, ms, db)

	app, err := svc.Transition(11, TransitionApplicationRequest{NewStatus: models.ApplicationStatusApproved})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Status != models.ApplicationStatusApproved {
		t.Errorf("expected approved status, got %s", app.Status)
	}
	if app.ReviewedAt == nil {
		t.Error("expected reviewed_at to be set on approval")
	}
	if createdMember == nil {
		t.Fatal("expected a member profile to be created")
	}
	if createdMember.MembershipTier != models.TierGold || !createdMember.ExclusiveInvestmentOpportunities {
		t.Errorf("expected gold member with gold benefits, got %+v", createdMember)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected exactly one welcome notification, got %d", len(notifications))
	}
	if notifications[0].NotificationType != models.NotificationTypeSuccess {
		t.Errorf("expected success notification, got %s", notifications[0].NotificationType)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations not met: %v", err)
	}
}

// A failure after the application write rolls the whole approval back,
// nothing is left half-promoted.
func TestTransitionApprovalRollsBackOnNotificationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			app := approvedApplication()
			app.Status = models.ApplicationStatusPending
			return app, nil
		},
	}
	notificationRepo := &mockNotificationRepo{
		createFn: func(n *models.Notification) (int64, error) {
			return 0, errors.New("insert failed")
		},
	}
	ms := NewMemberService(&mockMemberRepo{}, &mockStaffRepo{}, &mockBenefitRepo{}, &mockActivityRepo{}, notificationRepo, &mockPortfolioRepo{}, db)
	svc := NewApplicationService(appRepo, &mockMemberRepo{}, &mockStaffRepo{}, ms, db)

	if _, err := svc.Transition(11, TransitionApplicationRequest{NewStatus: models.ApplicationStatusApproved}); err == nil {
		t.Fatal("expected approval to fail when the welcome notification cannot be written")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations not met: %v", err)
	}
}

func TestTransitionRejectsInactiveReviewer(t *testing.T) {
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusPending}, nil
		},
	}
	staffRepo := &mockStaffRepo{
		getByIDFn: func(id int64) (*models.StaffMember, error) {
			return &models.StaffMember{ID: id, IsActive: false}, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, staffRepo)

	reviewerID := int64(9)
	_, err := svc.Transition(1, TransitionApplicationRequest{
		NewStatus:  models.ApplicationStatusUnderReview,
		ReviewerID: &reviewerID,
	})
	if !errors.Is(err, ErrReviewerNotFound) {
		t.Fatalf("expected ErrReviewerNotFound, got %v", err)
	}
}

func TestAssignReviewerOnTerminalApplication(t *testing.T) {
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			return &models.Application{ID: id, Status: models.ApplicationStatusApproved}, nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	_, err := svc.AssignReviewer(1, 9)
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

// Batch rejection isolates failures per record: already-terminal and
// missing applications are skipped and the rest still go through.
func TestRejectApplicationsBatchCounts(t *testing.T) {
	applications := map[int64]*models.Application{
		1: {ID: 1, Status: models.ApplicationStatusPending},
		2: {ID: 2, Status: models.ApplicationStatusApproved},
	}
	appRepo := &mockApplicationRepo{
		getByIDFn: func(id int64) (*models.Application, error) {
			if app, ok := applications[id]; ok {
				return app, nil
			}
			return nil, repositories.ErrNotFound
		},
		updateFn: func(app *models.Application) error {
			applications[app.ID] = app
			return nil
		},
	}
	svc := newApplicationServiceForTest(appRepo, nil, nil)

	result, err := svc.RejectApplications([]int64{1, 2, 99}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("expected 1 processed, got %d", result.Processed)
	}
	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", result.Skipped)
	}
	if len(result.FailedIDs) != 0 {
		t.Errorf("ineligible records must not be reported as failures, got %v", result.FailedIDs)
	}
	if applications[1].Status != models.ApplicationStatusRejected {
		t.Errorf("expected application 1 to be rejected, got %s", applications[1].Status)
	}
	if applications[2].Status != models.ApplicationStatusApproved {
		t.Errorf("approved application must stay approved, got %s", applications[2].Status)
	}
}

func TestGetApplicationsRejectsUnknownStatusFilter(t *testing.T) {
	svc := newApplicationServiceForTest(nil, nil, nil)

	badFilter := "archived"
	_, _, err := svc.GetApplications(1, 10, &badFilter)
	if !errors.Is(err, ErrApplicationValidation) {
		t.Fatalf("expected ErrApplicationValidation, got %v", err)
	}
}
